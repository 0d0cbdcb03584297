package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrMissingSigner is returned by PresignGet when the backend has no
// signing credentials configured.
var ErrMissingSigner = errors.New("storage: signed url signer not configured")

// Storage is the object store surface the application depends on. It
// covers uploading profile photos, checking and deleting them, and
// handing out short-lived download links.
type Storage interface {
	io.Closer

	// PutObject uploads the reader's contents under bucket/key.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	// StatObject fetches metadata without downloading the object.
	StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error)
	// DeleteObject removes the object if it exists.
	DeleteObject(ctx context.Context, bucket, key string) error
	// PresignGet returns a time-limited download URL.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// PutOptions carries upload attributes. Size may be -1 when the
// content length is not known ahead of time.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo is the metadata a backend reports for a stored object.
// Fields a backend cannot supply are left at their zero value.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}
