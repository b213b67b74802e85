// Package store persists branch records and the branch meta record through a
// string key/value Medium.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"shiftreport/internal/core"
	"shiftreport/internal/log"
	"shiftreport/internal/metrics"
)

const (
	// MetaKey holds the cross-branch meta record.
	MetaKey = "meta"
	// SingleKey is the only data key used when branch namespacing is off.
	SingleKey = "data"

	dataPrefix = "data:"
)

// ErrQuotaExceeded is returned by media that refuse a write over their size limit.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Medium is a string key/value backend.
type Medium interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Keyspace maps branch identities to medium keys.
type Keyspace struct {
	Namespaced bool
}

// KeyFor returns the data key for branch. Distinct branches map to distinct
// keys when namespacing is on, and no branch maps to MetaKey.
func (k Keyspace) KeyFor(branch string) string {
	if !k.Namespaced {
		return SingleKey
	}
	return dataPrefix + url.PathEscape(branch)
}

// BranchRecord is the persisted state of one branch.
type BranchRecord struct {
	Branch    string             `json:"branch"`
	Title     string             `json:"title"`
	Date      string             `json:"date"`
	TableData core.TableSnapshot `json:"tableData"`
}

// Meta is the cross-branch record. Fields written by other programs are kept
// on update.
type Meta struct {
	LastBranch string
}

// Store reads and writes branch records.
type Store struct {
	medium Medium
	keys   Keyspace
	logger *log.Logger

	closeOnce sync.Once
	closeErr  error
}

// New creates a Store over medium.
func New(medium Medium, keys Keyspace, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		medium: medium,
		keys:   keys,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// Keyspace returns the key mapping in use.
func (s *Store) Keyspace() Keyspace {
	return s.keys
}

// Save writes rec under its branch key and records the branch as the last one used.
func (s *Store) Save(ctx context.Context, rec BranchRecord) error {
	key := s.keys.KeyFor(rec.Branch)
	payload, err := json.Marshal(rec)
	if err != nil {
		metrics.StoreSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("encode branch record: %w", err)
	}
	if err := s.medium.Set(ctx, key, string(payload)); err != nil {
		metrics.StoreSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("write %s: %w", key, err)
	}
	metrics.StoreSaves.WithLabelValues("ok").Inc()
	s.logger.DebugContext(ctx, "Branch record saved",
		log.NewFields().WithOperation(log.OpSave).WithBranch(rec.Branch, key).ToSlice()...)

	return s.SetLastBranch(ctx, rec.Branch)
}

// Load reads the record stored for branch. A missing key, a read error and an
// unparseable value all report absence.
func (s *Store) Load(ctx context.Context, branch string) (BranchRecord, bool) {
	key := s.keys.KeyFor(branch)
	fields := log.NewFields().WithOperation(log.OpLoad).WithBranch(branch, key)

	raw, ok, err := s.medium.Get(ctx, key)
	if err != nil {
		metrics.StoreLoads.WithLabelValues(metrics.LoadError).Inc()
		s.logger.WarnContext(ctx, "Branch record unreadable", fields.WithError(err).ToSlice()...)
		return BranchRecord{}, false
	}
	if !ok {
		metrics.StoreLoads.WithLabelValues(metrics.LoadMiss).Inc()
		return BranchRecord{}, false
	}

	var rec BranchRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		metrics.StoreLoads.WithLabelValues(metrics.LoadCorrupt).Inc()
		s.logger.WarnContext(ctx, "Branch record corrupt, treating as absent", fields.WithError(err).ToSlice()...)
		return BranchRecord{}, false
	}
	metrics.StoreLoads.WithLabelValues(metrics.LoadHit).Inc()
	return rec, true
}

// Meta returns the meta record, empty when missing or unreadable.
func (s *Store) Meta(ctx context.Context) Meta {
	fields := s.readMeta(ctx)
	var meta Meta
	if raw, ok := fields["lastBranch"]; ok {
		if err := json.Unmarshal(raw, &meta.LastBranch); err != nil {
			s.logger.WarnContext(ctx, "Meta lastBranch unreadable, ignoring it",
				log.NewFields().WithOperation(log.OpMeta).WithError(err).ToSlice()...)
			meta.LastBranch = ""
		}
	}
	return meta
}

// SetLastBranch merges lastBranch into the meta record.
func (s *Store) SetLastBranch(ctx context.Context, branch string) error {
	fields := s.readMeta(ctx)
	encoded, err := json.Marshal(branch)
	if err != nil {
		return fmt.Errorf("encode last branch: %w", err)
	}
	fields["lastBranch"] = encoded

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	if err := s.medium.Set(ctx, MetaKey, string(payload)); err != nil {
		return fmt.Errorf("write %s: %w", MetaKey, err)
	}
	return nil
}

// Close releases the medium. Later calls return the first call's result.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.medium.Close()
	})
	return s.closeErr
}

func (s *Store) readMeta(ctx context.Context) map[string]json.RawMessage {
	fields := map[string]json.RawMessage{}
	raw, ok, err := s.medium.Get(ctx, MetaKey)
	if err != nil {
		s.logger.WarnContext(ctx, "Meta record unreadable",
			log.NewFields().WithOperation(log.OpMeta).WithError(err).ToSlice()...)
		return fields
	}
	if !ok {
		return fields
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		s.logger.WarnContext(ctx, "Meta record corrupt, starting fresh",
			log.NewFields().WithOperation(log.OpMeta).WithError(err).ToSlice()...)
		return map[string]json.RawMessage{}
	}
	return fields
}
