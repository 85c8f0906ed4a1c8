package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cloo-solutions/simsearch/internal/domain"
)

// SQLiteDirectoryRepository resolves principals from a SQLite accounts table.
type SQLiteDirectoryRepository struct {
	db sqlDBTX
}

func NewSQLiteDirectoryRepository(db *sql.DB) *SQLiteDirectoryRepository {
	return &SQLiteDirectoryRepository{db: db}
}

func (r *SQLiteDirectoryRepository) GetPrincipal(ctx context.Context, id int64) (*domain.Principal, error) {
	var p domain.Principal
	var role string
	var superuser, active bool
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, role, is_superuser, is_active FROM accounts WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Username, &role, &superuser, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, err
	}
	if !active {
		return nil, domain.ErrPrincipalInactive
	}
	p.Role = domain.ParseRole(role)
	p.Superuser = superuser
	return &p, nil
}
