// Package storage provides durable blob storage backends for backups.
package storage

import (
	"context"
	"time"
)

// ObjectInfo describes one stored blob.
type ObjectInfo struct {
	Name      string
	CreatedAt time.Time
}

// BlobStore stores opaque encrypted backup blobs under flat names.
type BlobStore interface {
	// Put writes a blob, overwriting any existing object with the same name.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads a blob; errs.ErrNotFound if no such object exists.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns objects whose name starts with prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
