package store_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftreport/internal/core"
	"shiftreport/internal/log"
	"shiftreport/internal/store"
	"shiftreport/internal/store/memory"
)

type failingMedium struct {
	*memory.Medium
	getErr error
	setErr error
}

func (f failingMedium) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Medium.Get(ctx, key)
}

func (f failingMedium) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Medium.Set(ctx, key, value)
}

func sampleRecord(branch string) store.BranchRecord {
	return store.BranchRecord{
		Branch: branch,
		Title:  "تقرير",
		Date:   "2026-10-19",
		TableData: core.TableSnapshot{
			Headers: core.DefaultHeaders,
			Rows: []core.RowTuple{{
				Date: "2026-10-19", Morning: "100", Evening: "50",
				Expenses: []core.SnapshotExpense{{Amount: "30", Description: "fuel"}},
				Net:      "120", Deliveries: "5",
			}},
		},
	}
}

func TestKeyFor(t *testing.T) {
	ns := store.Keyspace{Namespaced: true}

	tests := []struct {
		branch string
		want   string
	}{
		{"Main", "data:Main"},
		{"فرع المعادي", "data:%D9%81%D8%B1%D8%B9%20%D8%A7%D9%84%D9%85%D8%B9%D8%A7%D8%AF%D9%8A"},
		{"a/b", "data:a%2Fb"},
		{"", "data:"},
	}
	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			assert.Equal(t, tt.want, ns.KeyFor(tt.branch))
			assert.NotEqual(t, store.MetaKey, ns.KeyFor(tt.branch))
		})
	}

	assert.NotEqual(t, ns.KeyFor("a b"), ns.KeyFor("a%20b"))
	assert.Equal(t, store.SingleKey, store.Keyspace{}.KeyFor("anything"))
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := store.New(memory.New(0), store.Keyspace{Namespaced: true}, nil)

	rec := sampleRecord("Main")
	require.NoError(t, s.Save(ctx, rec))

	got, ok := s.Load(ctx, "Main")
	require.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Equal(t, "Main", s.Meta(ctx).LastBranch)

	_, ok = s.Load(ctx, "Other")
	assert.False(t, ok)
}

func TestLoadCorruptIsAbsent(t *testing.T) {
	ctx := context.Background()
	m := memory.New(0)
	keys := store.Keyspace{Namespaced: true}
	require.NoError(t, m.Set(ctx, keys.KeyFor("Main"), "{not json"))

	s := store.New(m, keys, nil)
	_, ok := s.Load(ctx, "Main")
	assert.False(t, ok)
}

func TestLoadReadErrorIsAbsent(t *testing.T) {
	m := failingMedium{Medium: memory.New(0), getErr: errors.New("disk gone")}
	s := store.New(m, store.Keyspace{Namespaced: true}, nil)

	_, ok := s.Load(context.Background(), "Main")
	assert.False(t, ok)
	assert.Empty(t, s.Meta(context.Background()).LastBranch)
}

func TestSaveReportsWriteFailure(t *testing.T) {
	m := failingMedium{Medium: memory.New(0), setErr: errors.New("read only")}
	s := store.New(m, store.Keyspace{Namespaced: true}, nil)

	err := s.Save(context.Background(), sampleRecord("Main"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data:Main")
}

func TestSaveQuotaExceeded(t *testing.T) {
	s := store.New(memory.New(64), store.Keyspace{Namespaced: true}, nil)

	err := s.Save(context.Background(), sampleRecord("Main"))
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrQuotaExceeded)
}

func TestSetLastBranchKeepsUnknownFields(t *testing.T) {
	ctx := context.Background()
	m := memory.New(0)
	require.NoError(t, m.Set(ctx, store.MetaKey, `{"lastBranch":"Old","theme":"dark"}`))

	s := store.New(m, store.Keyspace{Namespaced: true}, nil)
	require.NoError(t, s.SetLastBranch(ctx, "New"))

	raw, ok, err := m.Get(ctx, store.MetaKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"lastBranch":"New","theme":"dark"}`, raw)
	assert.Equal(t, "New", s.Meta(ctx).LastBranch)
}

func TestSetLastBranchReplacesCorruptMeta(t *testing.T) {
	ctx := context.Background()
	m := memory.New(0)
	require.NoError(t, m.Set(ctx, store.MetaKey, "[1,2"))

	s := store.New(m, store.Keyspace{Namespaced: true}, nil)
	assert.Empty(t, s.Meta(ctx).LastBranch)
	require.NoError(t, s.SetLastBranch(ctx, "Main"))
	assert.Equal(t, "Main", s.Meta(ctx).LastBranch)
}

func TestSingleKeyspaceSharesRecord(t *testing.T) {
	ctx := context.Background()
	m := memory.New(0)
	s := store.New(m, store.Keyspace{}, nil)

	require.NoError(t, s.Save(ctx, sampleRecord("Main")))
	got, ok := s.Load(ctx, "Other")
	require.True(t, ok)
	assert.Equal(t, "Main", got.Branch)
	assert.Equal(t, 2, m.Len())
}

func TestBranchRecordWireFormat(t *testing.T) {
	ctx := context.Background()
	m := memory.New(0)
	s := store.New(m, store.Keyspace{Namespaced: true}, nil)
	require.NoError(t, s.Save(ctx, sampleRecord("Main")))

	raw, _, err := m.Get(ctx, "data:Main")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"branch": "Main",
		"title": "تقرير",
		"date": "2026-10-19",
		"tableData": {
			"headers": ["التاريخ","الشيفت الصباحي","الشيفت المسائي","المصروفات","الصافي","التسليمات"],
			"rows": [["2026-10-19","100","50",[{"amount":"30","description":"fuel"}],"120","5"]]
		}
	}`, raw)
}

func TestMetaIgnoresNonStringLastBranch(t *testing.T) {
	ctx := context.Background()
	m := memory.New(0)
	require.NoError(t, m.Set(ctx, store.MetaKey, `{"lastBranch":42,"theme":"dark"}`))

	var buf bytes.Buffer
	s := store.New(m, store.Keyspace{Namespaced: true}, log.New(log.Config{Output: &buf, Format: "json"}))

	assert.Empty(t, s.Meta(ctx).LastBranch)
	assert.Contains(t, buf.String(), "Meta lastBranch unreadable")
	assert.Contains(t, buf.String(), `"operation":"meta"`)

	require.NoError(t, s.SetLastBranch(ctx, "Main"))
	assert.Equal(t, "Main", s.Meta(ctx).LastBranch)
	raw, _, err := m.Get(ctx, store.MetaKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"theme":"dark"`)
}

type countingMedium struct {
	*memory.Medium
	closes int
}

func (c *countingMedium) Close() error {
	c.closes++
	if c.closes > 1 {
		return errors.New("already closed")
	}
	return c.Medium.Close()
}

func TestCloseReleasesMediumOnce(t *testing.T) {
	m := &countingMedium{Medium: memory.New(0)}
	s := store.New(m, store.Keyspace{Namespaced: true}, nil)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, m.closes)
}
