package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "uploads"), "/uploads/")
	require.NoError(t, err)
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }
	store.random = func() int64 { return 42 }
	return store
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	store, err := NewStore(dir, "/uploads")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, store.Dir())
	assert.Equal(t, "/uploads/x.png", store.URL("x.png"))
}

func TestSave(t *testing.T) {
	store := setupTestStore(t)

	f, err := store.Save("cat.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "1700000000000-42-cat.png", f.ServerName)
	assert.Equal(t, "cat.png", f.Name.Original)
	assert.Equal(t, int64(len("png-bytes")), f.Size)
	assert.Equal(t, "png", f.Ext())

	data, err := os.ReadFile(filepath.Join(store.Dir(), f.ServerName))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveNeverOverwrites(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Save("cat.png", strings.NewReader("first"))
	require.NoError(t, err)

	_, err = store.Save("cat.png", strings.NewReader("second"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrExist))

	data, err := os.ReadFile(filepath.Join(store.Dir(), "1700000000000-42-cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestList(t *testing.T) {
	store := setupTestStore(t)
	dir := store.Dir()

	writeFile(t, dir, "1700000000000-42-cat.png", "cat")
	writeFile(t, dir, "1-2-dog.JPG", "woof")
	writeFile(t, dir, "3-4-bird.jpeg", "tweet")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "album.png"), 0o755))

	mtime := time.UnixMilli(1600000000000)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "1-2-dog.JPG"), mtime, mtime))

	files, err := store.List()
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "1-2-dog.JPG", files[0].ServerName)
	assert.Equal(t, "dog.JPG", files[0].Name.Original)
	assert.Equal(t, "JPG", files[0].Ext())
	assert.Equal(t, int64(4), files[0].Size)
	assert.Equal(t, mtime.UnixMilli(), files[0].ModTime.UnixMilli())

	assert.Equal(t, "cat.png", files[1].Name.Original)
	assert.Equal(t, "bird.jpeg", files[2].Name.Original)
}

func TestListEmpty(t *testing.T) {
	store := setupTestStore(t)

	files, err := store.List()
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestListUnreadableDirectory(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, os.RemoveAll(store.Dir()))

	files, err := store.List()
	assert.Error(t, err)
	assert.Nil(t, files)
}

func TestRemove(t *testing.T) {
	store := setupTestStore(t)
	f, err := store.Save("cat.png", strings.NewReader("cat"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(f.ServerName))
	_, err = os.Stat(filepath.Join(store.Dir(), f.ServerName))
	assert.True(t, os.IsNotExist(err))

	err = store.Remove(f.ServerName)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRemoveFailure(t *testing.T) {
	store := setupTestStore(t)
	sub := filepath.Join(store.Dir(), "album")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "inside.png", "x")

	err := store.Remove("album")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestDiscard(t *testing.T) {
	store := setupTestStore(t)
	f, err := store.Save("cat.png", strings.NewReader("cat"))
	require.NoError(t, err)

	store.Discard([]File{f, {ServerName: "never-written.png"}})

	files, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, files)
}
