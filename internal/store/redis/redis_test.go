package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediumUsesPrefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	m, err := Dial(ctx, mr.Addr(), "shiftreport:")
	require.NoError(t, err)
	defer m.Close()

	_, ok, err := m.Get(ctx, "meta")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "meta", `{"lastBranch":"Main"}`))
	assert.True(t, mr.Exists("shiftreport:meta"))

	v, ok, err := m.Get(ctx, "meta")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"lastBranch":"Main"}`, v)
}

func TestGetFailsWhenServerDown(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	m, err := Dial(ctx, mr.Addr(), "")
	require.NoError(t, err)
	defer m.Close()

	mr.Close()
	_, _, err = m.Get(ctx, "meta")
	assert.Error(t, err)
}
