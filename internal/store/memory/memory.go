// Package memory is an in-process Medium with an optional byte quota.
package memory

import (
	"context"
	"fmt"
	"sync"

	"shiftreport/internal/store"
)

// Medium keeps values in a map. A positive quota caps the summed size of all
// keys and values.
type Medium struct {
	mu    sync.RWMutex
	data  map[string]string
	used  int
	quota int
}

// New creates an empty medium. quota <= 0 disables the limit.
func New(quota int) *Medium {
	return &Medium{data: make(map[string]string), quota: quota}
}

func (m *Medium) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Medium) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used + len(key) + len(value)
	if old, ok := m.data[key]; ok {
		used -= len(key) + len(old)
	}
	if m.quota > 0 && used > m.quota {
		return fmt.Errorf("set %s (%d of %d bytes): %w", key, used, m.quota, store.ErrQuotaExceeded)
	}
	m.data[key] = value
	m.used = used
	return nil
}

func (m *Medium) Close() error {
	return nil
}

// Len returns the number of stored keys.
func (m *Medium) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
