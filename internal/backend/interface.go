package backend

import (
	"context"

	"shiftreport/internal/store"
)

// PingFunc reports whether a backend is reachable.
type PingFunc func(ctx context.Context) error

// BackendResult contains the medium, its key mapping and a health check.
// Ping is nil for media that cannot become unreachable. The medium is
// released by the store.Store built over it.
type BackendResult struct {
	Medium store.Medium
	Keys   store.Keyspace
	Ping   PingFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Keyspace
	Namespaced bool

	// SQLite specific
	SQLiteDBPath string

	// Redis specific
	RedisAddr   string
	RedisPrefix string

	// Memory specific, <= 0 disables the quota
	MemoryQuotaBytes int
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	RedisBackend  BackendType = "redis"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, RedisBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
