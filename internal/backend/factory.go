package backend

import (
	"context"
	"fmt"

	"shiftreport/internal/log"
	"shiftreport/internal/store"
	"shiftreport/internal/store/memory"
	"shiftreport/internal/store/redis"
	"shiftreport/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(ctx, config)
	case RedisBackend:
		res, err = f.createRedisBackend(ctx, config)
	case MemoryBackend:
		res, err = f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}
	res.Keys = store.Keyspace{Namespaced: config.Namespaced}
	return res, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	medium, err := sqlite.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite medium: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		log.FieldBackend, config.Type.String(),
		"db_path", config.SQLiteDBPath,
		"namespaced", config.Namespaced)

	return &BackendResult{
		Medium: medium,
		Ping:   medium.Ping,
	}, nil
}

func (f *DefaultFactory) createRedisBackend(ctx context.Context, config Config) (*BackendResult, error) {
	medium, err := redis.Dial(ctx, config.RedisAddr, config.RedisPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis medium: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized Redis backend",
		log.FieldBackend, config.Type.String(),
		"addr", config.RedisAddr,
		"prefix", config.RedisPrefix,
		"namespaced", config.Namespaced)

	return &BackendResult{
		Medium: medium,
		Ping:   medium.Ping,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	medium := memory.New(config.MemoryQuotaBytes)

	f.logger.InfoContext(ctx, "Initialized memory backend",
		log.FieldBackend, config.Type.String(),
		"quota_bytes", config.MemoryQuotaBytes,
		"namespaced", config.Namespaced)

	return &BackendResult{
		Medium: medium,
	}, nil
}
