package db

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/repository"
	"github.com/lalith-99/eventboard/internal/repository/jsonfile"
	"github.com/lalith-99/eventboard/internal/repository/kvdb"
	"github.com/lalith-99/eventboard/internal/repository/memory"
	"github.com/lalith-99/eventboard/internal/repository/postgres"
)

// OpenStore picks a state backend from a connection string:
//
//	file://data.json            JSON document on disk
//	kvdb://data/event.db        bbolt file
//	postgres://user@host/db     jsonb row in Postgres (postgresql:// works too)
//	memory://                   in-process, lost on exit
//
// The returned store's Close releases everything OpenStore acquired.
func OpenStore(ctx context.Context, raw string, logger *zap.Logger) (repository.StateStore, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}

	switch u.Scheme {
	case "file", "":
		path := u.Host + u.Path
		if u.Scheme == "" {
			path = raw
		}
		logger.Info("using json file store", zap.String("path", path))
		return jsonfile.NewStateStore(path)
	case "kvdb":
		path := u.Host + u.Path
		logger.Info("using bbolt store", zap.String("path", path))
		return kvdb.Open(path)
	case "postgres", "postgresql":
		database, err := New(ctx, raw, PoolOptions{ConnectAttempts: 5}, logger)
		if err != nil {
			return nil, err
		}
		return &pooledStore{StateStore: database.State(), db: database}, nil
	case "memory":
		logger.Warn("using in-memory store, data is lost on exit")
		return memory.NewStateStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", u.Scheme)
	}
}

// pooledStore ties the pool's lifetime to the store.
type pooledStore struct {
	*postgres.StateStore
	db *DB
}

func (p *pooledStore) Close() error {
	p.db.Close()
	return nil
}

// Health pings the pool.
func (p *pooledStore) Health(ctx context.Context) error {
	return p.db.Health(ctx)
}

// HealthChecker is implemented by stores with a remote dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}
