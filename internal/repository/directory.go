package repository

import (
	"context"
	"errors"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DirectoryRepository resolves principals from the accounts table.
type DirectoryRepository struct {
	db dbtx
}

func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{db: pool}
}

func NewDirectoryRepositoryWithTx(tx pgx.Tx) *DirectoryRepository {
	return &DirectoryRepository{db: tx}
}

func (r *DirectoryRepository) GetPrincipal(ctx context.Context, id int64) (*domain.Principal, error) {
	var p domain.Principal
	var role string
	var active bool
	err := r.db.QueryRow(ctx,
		`SELECT id, username, role, is_superuser, is_active FROM accounts WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Username, &role, &p.Superuser, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, err
	}
	if !active {
		return nil, domain.ErrPrincipalInactive
	}
	p.Role = domain.ParseRole(role)
	return &p, nil
}
