package filestore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSaveOpenRemove(t *testing.T) {
	store := NewLocal(t.TempDir())
	ctx := context.Background()

	path, err := store.Save(ctx, "project_1/inspection_2_20240101_120000.pdf", strings.NewReader("content"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "content", string(data))

	require.NoError(t, store.Remove(ctx, path))

	_, err = store.Open(ctx, path)
	assert.Error(t, err)

	// Removing twice is not an error.
	assert.NoError(t, store.Remove(ctx, path))
}

func TestLocalSaveCreatesNestedDirs(t *testing.T) {
	store := NewLocal(t.TempDir())

	path, err := store.Save(context.Background(), "photos/20240101_120000_site.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Contains(t, path, "photos/")
}
