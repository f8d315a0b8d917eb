// Package storage provides object storage for uploaded media files.
// Two backends exist: an S3-compatible client (CEPH/Hetzner) used in
// production and a local-disk store used in development.
package storage

import (
	"context"
	"io"
)

// Store is the interface upload handlers write media through. Upload
// returns the public URL the stored file is reachable at.
type Store interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}
