package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Supported driver names for NewFromDriver.
const (
	DriverS3    = "s3"
	DriverGCS   = "gcs"
	DriverMinIO = "minio"
)

// ErrUnknownDriver is returned when the configured driver name does
// not match any supported backend.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// FactoryOptions bundles per-backend configuration so callers can
// build any driver from one config block.
type FactoryOptions struct {
	S3    S3Options
	GCS   GCSOptions
	MinIO MinIOOptions
}

// NewFromDriver picks a Storage implementation by driver name. The
// name is matched case-insensitively.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	switch strings.ToLower(driver) {
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverGCS:
		return NewGCS(ctx, opts.GCS)
	case DriverMinIO:
		return NewMinIO(opts.MinIO)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
