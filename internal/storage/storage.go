// Package storage holds the object store drivers that back uploaded media.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"artsy/internal/config"
)

// ErrObjectNotFound is returned by GetStream for unknown keys.
var ErrObjectNotFound = errors.New("object not found")

var errInvalidKey = errors.New("invalid object key")

// ObjectStore is a flat, write-once blob namespace keyed by name.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	GetStream(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// New picks a driver from cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config) (ObjectStore, func(), error) {
	switch cfg.StorageDriver {
	case "local":
		fs, err := NewFilesystem(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	case "gcs":
		gcs, err := NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { _ = gcs.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// ValidateKey rejects keys that could escape the namespace.
func ValidateKey(key string) error {
	switch {
	case key == "", key == ".", key == "..":
		return fmt.Errorf("%w: %q", errInvalidKey, key)
	case strings.ContainsAny(key, "/\\\x00"):
		return fmt.Errorf("%w: %q", errInvalidKey, key)
	case path.Clean(key) != key:
		return fmt.Errorf("%w: %q", errInvalidKey, key)
	}
	return nil
}

func contentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
