package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cloo-solutions/simsearch/internal/config"
	"github.com/cloo-solutions/simsearch/internal/database"
	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/repository"
	"github.com/cloo-solutions/simsearch/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

// backend bundles the stores of one configured database.
type backend struct {
	collections map[domain.Module]service.RecordCollection
	logs        service.QueryLogRepository
	suggestions service.SuggestionRepository
	directory   service.PrincipalDirectory
	tx          service.TxRunner
	close       func()
}

// openBackend connects to the configured database and, when migrate is set,
// applies the embedded migrations first.
func openBackend(ctx context.Context, cfg *config.Config, migrate bool) (*backend, error) {
	if cfg.IsSQLite() {
		db, err := database.OpenSQLite(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if migrate {
			if err := database.MigrateSQLite(db); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		slog.Info("connected to database", "driver", database.DriverSQLite)
		return sqliteBackend(db), nil
	}

	if migrate {
		if err := database.MigratePostgres(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.PoolConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	slog.Info("connected to database", "driver", database.DriverPostgres)
	return postgresBackend(pool, cfg.SearchTextConfig), nil
}

func postgresBackend(pool *pgxpool.Pool, textConfig string) *backend {
	return &backend{
		collections: repository.NewPostgresCollections(pool, textConfig),
		logs:        repository.NewQueryLogRepository(pool),
		suggestions: repository.NewSuggestionRepository(pool),
		directory:   repository.NewDirectoryRepository(pool),
		tx:          repository.NewTxRunner(pool),
		close:       pool.Close,
	}
}

func sqliteBackend(db *sql.DB) *backend {
	return &backend{
		collections: repository.NewSQLiteCollections(db),
		logs:        repository.NewSQLiteQueryLogRepository(db),
		suggestions: repository.NewSQLiteSuggestionRepository(db),
		directory:   repository.NewSQLiteDirectoryRepository(db),
		tx:          repository.NewSQLiteTxRunner(db),
		close:       func() { _ = db.Close() },
	}
}

// searchStack is the wired search core.
type searchStack struct {
	search     *service.SearchService
	recorder   *service.QueryRecorder
	principals *service.PrincipalService
}

// newSearchStack builds the search service over b as configured by cfg.
// The caller must Release the recorder.
func newSearchStack(cfg *config.Config, b *backend) (*searchStack, error) {
	bindings, err := service.BindEntities(service.DefaultEntities(), b.collections)
	if err != nil {
		return nil, fmt.Errorf("failed to bind search entities: %w", err)
	}

	opts := []service.RecorderOption{service.WithRecorderTx(b.tx)}
	if cfg.SuggestionAsync {
		opts = append(opts, service.WithAsyncSuggestions(cfg.SuggestionWorkers))
	}
	recorder, err := service.NewQueryRecorder(b.logs, b.suggestions, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create query recorder: %w", err)
	}

	svcCfg := service.DefaultSearchServiceConfig()
	svcCfg.MaxResults = cfg.SearchMaxResults
	svcCfg.AdapterLimit = cfg.EffectiveAdapterLimit()
	svcCfg.HistoryLimit = cfg.SearchHistoryLimit
	svcCfg.SuggestionLimit = cfg.SearchSuggestionLimit
	svcCfg.ForceFallback = cfg.SearchForceFallback
	svcCfg.Parallel = cfg.SearchParallel
	svcCfg.IsolateFailures = cfg.SearchIsolateFailures

	links := service.NewRouteTable(cfg.BaseURL, service.DefaultRoutes())
	search := service.NewSearchServiceWithConfig(bindings, recorder, b.logs, b.suggestions, links, svcCfg)
	for _, a := range search.Adapters() {
		slog.Debug("search adapter ready", "module", string(a.Module()), "strategy", a.Strategy())
	}

	return &searchStack{
		search:     search,
		recorder:   recorder,
		principals: service.NewPrincipalService(b.directory),
	}, nil
}
