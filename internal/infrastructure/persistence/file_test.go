package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	// Missing key reads as nil without error.
	value, err := store.Get(ctx, "flashcards")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Set(ctx, "flashcards", []byte(`{"version":1,"flashcards":[]}`)))
	require.NoError(t, store.Set(ctx, "stats", []byte(`{"totalCards":0}`)))

	value, err = store.Get(ctx, "flashcards")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"flashcards":[]}`, string(value))

	// A new store over the same file sees the data.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	value, err = reopened.Get(ctx, "stats")
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalCards":0}`, string(value))
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "deck.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "flashcards", []byte(`{}`)))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := Open("cassandra", "somewhere")
	assert.Error(t, err)
}

func TestOpenFileEngine(t *testing.T) {
	store, err := Open(EngineFile, filepath.Join(t.TempDir(), "deck.json"))
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestOpenSQLiteEngine(t *testing.T) {
	store, err := Open("", filepath.Join(t.TempDir(), "deck.db"))
	require.NoError(t, err)
	ctx := context.Background()

	value, err := store.Get(ctx, "flashcards")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Set(ctx, "flashcards", []byte(`{"version":1}`)))
	require.NoError(t, store.Set(ctx, "flashcards", []byte(`{"version":2}`)))

	value, err = store.Get(ctx, "flashcards")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(value))
	assert.NoError(t, store.Close())
}
