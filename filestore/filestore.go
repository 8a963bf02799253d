// Package filestore persists uploaded binary content. The default
// backend writes under a local uploads directory; a Google Cloud
// Storage backend is selected through configuration in deployments
// that cannot rely on local disk.
package filestore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Store saves, reopens and removes stored files. Save returns the path
// the caller should persist on the owning record; Open and Remove take
// that same path back.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}

// Local stores files on the local filesystem under a root directory.
type Local struct {
	root string
}

// NewLocal creates a local store rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

func (l *Local) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	full := filepath.Join(l.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", err
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}
	return filepath.ToSlash(full), nil
}

func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return os.Open(filepath.FromSlash(path))
}

// Remove deletes the file. A file that is already gone is not an error.
func (l *Local) Remove(ctx context.Context, path string) error {
	if err := os.Remove(filepath.FromSlash(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
