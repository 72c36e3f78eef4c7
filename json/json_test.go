package json_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/mindlab"
	mljson "github.com/fwojciec/mindlab/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var record = mindlab.HighScore{Score: 42, Name: "Ada", Date: time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)}

func TestStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "data.json")
	store := mljson.NewStore(path)

	require.NoError(t, store.Save(context.Background(), record))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	got, err := mljson.NewStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, record.Score, got.Score)
	assert.Equal(t, record.Name, got.Name)
	assert.True(t, record.Date.Equal(got.Date))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestStore_LoadMissing(t *testing.T) {
	t.Parallel()

	got, err := mljson.NewStore(filepath.Join(t.TempDir(), "none.json")).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mindlab.HighScore{}, got)
	assert.Equal(t, "No one yet", got.Holder())
}

func TestStore_PreservesUnknownRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"records":{"theme":"dark"}}`), 0o600))

	require.NoError(t, mljson.NewStore(path).Save(context.Background(), record))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"theme": "dark"`)
	assert.Contains(t, string(data), `"dodger.high_score"`)
}

func TestStore_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid record", func(t *testing.T) {
		t.Parallel()
		store := mljson.NewStore(filepath.Join(t.TempDir(), "data.json"))
		err := store.Save(context.Background(), mindlab.HighScore{Score: 1})
		assert.ErrorIs(t, err, mindlab.ErrValidation)
	})

	t.Run("unsupported version", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"version":2,"records":{}}`), 0o600))
		_, err := mljson.NewStore(path).Load(context.Background())
		assert.ErrorContains(t, err, "unsupported envelope version")
	})

	t.Run("corrupt file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
		_, err := mljson.NewStore(path).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := mljson.NewStore(filepath.Join(t.TempDir(), "data.json")).Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestUnmarshalHighScore(t *testing.T) {
	t.Parallel()

	got, err := mljson.UnmarshalHighScore([]byte(`{"score":3,"name":"bo","date":"2026-01-02T03:04:05Z"}`))
	require.NoError(t, err)
	assert.Equal(t, 3, got.Score)
	assert.Equal(t, "bo", got.Name)

	_, err = mljson.UnmarshalHighScore([]byte(`nope`))
	assert.Error(t, err)
}
