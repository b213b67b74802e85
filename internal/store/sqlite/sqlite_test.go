package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediumRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "report.db")

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	_, ok, err := m.Get(ctx, "data:Main")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "data:Main", `{"branch":"Main"}`))
	require.NoError(t, m.Set(ctx, "data:Main", `{"branch":"Main","title":"x"}`))

	v, ok, err := m.Get(ctx, "data:Main")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"branch":"Main","title":"x"}`, v)
	require.NoError(t, m.Ping(ctx))
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "report.db")

	m, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, "meta", `{"lastBranch":"فرع"}`))
	require.NoError(t, m.Close())

	// Migrations are idempotent on an existing schema.
	m, err = Open(path)
	require.NoError(t, err)
	defer m.Close()

	v, ok, err := m.Get(ctx, "meta")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"lastBranch":"فرع"}`, v)
}
