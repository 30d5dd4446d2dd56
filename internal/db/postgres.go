package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/repository/postgres"
)

// defaultAppName tags eventboard sessions in pg_stat_activity.
const defaultAppName = "eventboard"

// PoolOptions tunes the pool. Zero values take the defaults below; pool_*
// parameters in the URL win over both.
type PoolOptions struct {
	MaxConns int32
	AppName  string
	// ConnectAttempts bounds the startup ping loop. A database that comes
	// up after the server (compose, fresh CI container) gets that many
	// tries, one second apart.
	ConnectAttempts int
}

// DB is the Postgres backend of the state store: a pool plus the single-row
// event document living in it.
//
// Why is the schema set up here and not by a migration tool?
//   - The whole store is one table with one row. A migration framework
//     would outweigh the schema it manages.
//   - Every process that opens the store needs the row to exist, so New
//     does it once, under the same context and timeout as the connect.
type DB struct {
	pool   *pgxpool.Pool
	state  *postgres.StateStore
	logger *zap.Logger
}

// New connects to databaseURL, waits for the server to answer and makes sure
// the event_state row exists. The pool is closed again on any failure.
func New(ctx context.Context, databaseURL string, opts PoolOptions, logger *zap.Logger) (*DB, error) {
	cfg, err := poolConfig(databaseURL, opts)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := waitForServer(ctx, pool, opts.ConnectAttempts, logger); err != nil {
		pool.Close()
		return nil, err
	}

	state := postgres.NewStateStore(pool)
	if err := state.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres state store ready",
		zap.String("host", cfg.ConnConfig.Host),
		zap.String("database", cfg.ConnConfig.Database),
		zap.String("application_name", cfg.ConnConfig.RuntimeParams["application_name"]),
		zap.Int32("max_conns", cfg.MaxConns),
	)
	return &DB{pool: pool, state: state, logger: logger}, nil
}

// poolConfig parses the URL and applies eventboard's sizing. Writes go
// through one locked row, so a handful of connections is plenty: one holds
// the row lock while the rest serve reads and health checks.
func poolConfig(databaseURL string, opts PoolOptions) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	query := urlQuery(databaseURL)

	if query.Get("pool_max_conns") == "" {
		cfg.MaxConns = 8
		if opts.MaxConns > 0 {
			cfg.MaxConns = opts.MaxConns
		}
	}
	if query.Get("pool_min_conns") == "" {
		cfg.MinConns = 1
	}
	if cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = cfg.MaxConns
	}
	if query.Get("pool_max_conn_idle_time") == "" {
		cfg.MaxConnIdleTime = 10 * time.Minute
	}
	if query.Get("pool_health_check_period") == "" {
		cfg.HealthCheckPeriod = 30 * time.Second
	}

	if cfg.ConnConfig.RuntimeParams == nil {
		cfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	if cfg.ConnConfig.RuntimeParams["application_name"] == "" {
		name := opts.AppName
		if name == "" {
			name = defaultAppName
		}
		cfg.ConnConfig.RuntimeParams["application_name"] = name
	}
	return cfg, nil
}

// urlQuery returns the query of a URL-style connection string. Keyword/value
// strings ("host=... dbname=...") have none.
func urlQuery(raw string) url.Values {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return url.Values{}
	}
	return u.Query()
}

func waitForServer(ctx context.Context, pool *pgxpool.Pool, attempts int, logger *zap.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		if i == attempts || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		logger.Warn("postgres not reachable yet", zap.Int("attempt", i), zap.Error(err))
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping postgres: %w", ctx.Err())
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("ping postgres: %w", err)
}

// State is the store backed by this pool.
func (db *DB) State() *postgres.StateStore {
	return db.state
}

func (db *DB) Close() {
	db.logger.Info("closing postgres pool")
	db.pool.Close()
}

// Health pings the server. The state row is not read, so a held row lock
// does not make the service look down.
func (db *DB) Health(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
