package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LoadEmpty(t *testing.T) {
	t.Parallel()

	s := openStore(t, ":memory:")
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mindlab.HighScore{}, got)
}

func TestStore_SaveOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t, ":memory:")
	date := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, mindlab.HighScore{Score: 10, Name: "Ada", Date: date}))
	require.NoError(t, s.Save(ctx, mindlab.HighScore{Score: 25, Name: "Grace", Date: date.Add(time.Hour)}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, got.Score)
	assert.Equal(t, "Grace", got.Name)
	assert.True(t, date.Add(time.Hour).Equal(got.Date))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mindlab.db")
	date := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	first, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, mindlab.HighScore{Score: 7, Name: "Lin", Date: date}))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	assert.Equal(t, path, second.Path())
	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Score)
	assert.Equal(t, "Lin", got.Name)
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	t.Parallel()

	s := openStore(t, ":memory:")
	err := s.Save(context.Background(), mindlab.HighScore{Score: 3})
	require.ErrorIs(t, err, mindlab.ErrValidation)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mindlab.HighScore{}, got)
}
