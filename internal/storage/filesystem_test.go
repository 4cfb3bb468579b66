package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"artsy/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFilesystem(filepath.Join(t.TempDir(), "objects"))
	require.NoError(t, err)

	require.NoError(t, fs.Put(ctx, "1-cat.jpg", []byte("jpeg bytes")))

	rc, err := fs.GetStream(ctx, "1-cat.jpg")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "jpeg bytes", string(body))

	require.NoError(t, fs.Delete(ctx, "1-cat.jpg"))
	_, err = fs.GetStream(ctx, "1-cat.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// already gone
	assert.NoError(t, fs.Delete(ctx, "1-cat.jpg"))
}

func TestFilesystemLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFilesystem(dir)
	require.NoError(t, err)
	require.NoError(t, fs.Put(context.Background(), "a.jpg", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.jpg", entries[0].Name())
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../etc/passwd", "a/b.jpg", `a\b.jpg`} {
		assert.Error(t, fs.Put(ctx, key, []byte("x")), key)
		_, err := fs.GetStream(ctx, key)
		assert.ErrorIs(t, err, ErrObjectNotFound, key)
	}
}

func TestFilesystemHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	assert.ErrorIs(t, fs.Put(ctx, "a.jpg", []byte("x")), context.Canceled)
}

func TestNewSelectsDriver(t *testing.T) {
	store, closeFn, err := New(context.Background(), &config.Config{StorageDriver: "local", StorageDir: t.TempDir()})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &Filesystem{}, store)

	_, _, err = New(context.Background(), &config.Config{StorageDriver: "s3"})
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", contentType("1-a.jpg"))
	assert.Equal(t, "application/octet-stream", contentType("noext"))
}
