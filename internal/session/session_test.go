package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SetGetClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	_, ok := store.Get()
	assert.False(t, ok, "empty store should have no session")

	require.NoError(t, store.Set(Session{Token: "abc", DisplayName: "Jane"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, Session{Token: "abc", DisplayName: "Jane"}, got)

	// Survives a new store instance over the same file.
	got, ok = NewFileStore(path).Get()
	require.True(t, ok)
	assert.Equal(t, "Jane", got.DisplayName)

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	assert.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestFileStore_CorruptFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, ok := NewFileStore(path).Get()
	assert.False(t, ok)
}

func TestFileStore_EmptyTokenReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"","display_name":"x"}`), 0600))

	_, ok := NewFileStore(path).Get()
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	_, ok := store.Get()
	assert.False(t, ok)

	require.NoError(t, store.Set(Session{Token: "t", DisplayName: "n"}))
	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "t", got.Token)

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	assert.False(t, ok)
}

func TestSession_TokenSource(t *testing.T) {
	tok, err := Session{Token: "secret"}.TokenSource().Token()
	require.NoError(t, err)
	assert.Equal(t, "secret", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.Type())
}
