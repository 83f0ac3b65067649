// Package storage holds post media blobs behind a backend-agnostic interface.
// Blob names are server-generated UUIDs, never client-supplied, so path
// traversal is impossible by construction.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"glimpse/internal/observability"

	"github.com/google/uuid"
)

// BlobStore is a flat namespace of media blobs keyed by server-chosen names.
type BlobStore interface {
	// Save writes the blob and returns the key it was stored under.
	Save(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
	// Delete removes the blob. Deleting an absent key is not an error: a
	// previous partial deletion may have already released it.
	Delete(ctx context.Context, key string) error
	// URL returns the public path clients use to fetch the blob.
	URL(key string) string
}

// NewKey generates a blob key, preserving the upload's file extension so
// static file servers infer the right content type.
func NewKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 8 {
		ext = ""
	}
	return uuid.NewString() + ext
}

// DiskStore keeps blobs as files under a single directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	key := NewKey(contentTypeExt(contentType))
	dst := filepath.Join(s.dir, key)

	out, err := os.Create(dst)
	if err != nil {
		observability.BlobOperations.WithLabelValues("disk", "save", "error").Inc()
		return "", err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, reader); err != nil {
		_ = os.Remove(dst)
		observability.BlobOperations.WithLabelValues("disk", "save", "error").Inc()
		return "", err
	}

	observability.BlobOperations.WithLabelValues("disk", "save", "success").Inc()
	return key, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		observability.BlobOperations.WithLabelValues("disk", "delete", "error").Inc()
		return err
	}
	observability.BlobOperations.WithLabelValues("disk", "delete", "success").Inc()
	return nil
}

func (s *DiskStore) URL(key string) string {
	return "/uploads/" + key
}

// Dir returns the backing directory, used to mount the static file route.
func (s *DiskStore) Dir() string {
	return s.dir
}

func contentTypeExt(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "blob.jpg"
	case "image/png":
		return "blob.png"
	case "image/gif":
		return "blob.gif"
	case "image/webp":
		return "blob.webp"
	case "video/mp4":
		return "blob.mp4"
	case "video/webm":
		return "blob.webm"
	case "video/quicktime":
		return "blob.mov"
	default:
		return "blob"
	}
}
