package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parlamento_data.json")

	assert.False(t, Exists(path))
	_, err := Read(path)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "parlamento_data.json")
	payload := []byte(`[{"IniId":"1"}]`)

	require.NoError(t, Write(path, payload))
	assert.True(t, Exists(path))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parlamento_data.json")

	require.NoError(t, Write(path, []byte("old")))
	require.NoError(t, Write(path, []byte("new")))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestExistsIgnoresDirectories(t *testing.T) {
	assert.False(t, Exists(t.TempDir()))
}
