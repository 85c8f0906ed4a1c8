package repository

import (
	"context"
	"database/sql"

	"github.com/cloo-solutions/simsearch/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner provides transactional repositories using a pgx pool.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) WithTx(ctx context.Context, fn func(repos service.TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	repos := &txRepos{tx: tx}
	if err := fn(repos); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

type txRepos struct {
	tx pgx.Tx
}

func (r *txRepos) QueryLogs() service.QueryLogRepository {
	return NewQueryLogRepositoryWithTx(r.tx)
}

func (r *txRepos) Suggestions() service.SuggestionRepository {
	return NewSuggestionRepositoryWithTx(r.tx)
}

// SQLiteTxRunner provides transactional repositories over a SQLite handle.
type SQLiteTxRunner struct {
	db *sql.DB
}

func NewSQLiteTxRunner(db *sql.DB) *SQLiteTxRunner {
	return &SQLiteTxRunner{db: db}
}

func (r *SQLiteTxRunner) WithTx(ctx context.Context, fn func(repos service.TxRepositories) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	repos := &sqliteTxRepos{tx: tx}
	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

type sqliteTxRepos struct {
	tx *sql.Tx
}

func (r *sqliteTxRepos) QueryLogs() service.QueryLogRepository {
	return NewSQLiteQueryLogRepositoryWithTx(r.tx)
}

func (r *sqliteTxRepos) Suggestions() service.SuggestionRepository {
	return NewSQLiteSuggestionRepositoryWithTx(r.tx)
}
