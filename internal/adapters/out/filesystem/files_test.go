package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_WriteAndRead(t *testing.T) {
	files := NewFiles()
	path := filepath.Join(t.TempDir(), "http_proxies.conf")

	require.NoError(t, files.WriteFile(path, []byte("server {}\n")))

	data, err := files.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "server {}\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestFiles_WriteReplacesAndKeepsMode(t *testing.T) {
	files := NewFiles()
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer\n"), 0600))

	require.NoError(t, files.WriteFile(path, []byte("new\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFiles_ReadMissing(t *testing.T) {
	_, err := NewFiles().ReadFile(filepath.Join(t.TempDir(), "missing"))

	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFiles_EnsureDir(t *testing.T) {
	files := NewFiles()
	path := filepath.Join(t.TempDir(), "project", "generated")

	require.NoError(t, files.EnsureDir(path))
	require.NoError(t, files.EnsureDir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFiles_WriteIntoMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "file.conf")

	assert.Error(t, NewFiles().WriteFile(path, []byte("x")))
}
