package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"cloud.google.com/go/storage"
)

// GCS stores files as objects in a Google Cloud Storage bucket. Paths
// it hands out look like "gs://bucket/name" so records stay readable
// regardless of which backend wrote them.
type GCS struct {
	client *storage.Client
	bucket string
}

// NewGCS opens a client against the given bucket using ambient
// credentials (GOOGLE_APPLICATION_CREDENTIALS or the metadata server).
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	wr := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	if _, err := io.Copy(wr, r); err != nil {
		wr.Close()
		return "", err
	}
	if err := wr.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", g.bucket, name), nil
}

func (g *GCS) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	rd, err := g.client.Bucket(g.bucket).Object(g.objectName(path)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fs.ErrNotExist
	}
	return rd, err
}

func (g *GCS) Remove(ctx context.Context, path string) error {
	err := g.client.Bucket(g.bucket).Object(g.objectName(path)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCS) objectName(path string) string {
	return strings.TrimPrefix(path, fmt.Sprintf("gs://%s/", g.bucket))
}
