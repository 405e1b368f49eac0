// Package storage stores uploaded media on a local directory or an
// S3-compatible bucket (AWS S3, MinIO, R2).
//
//	disk, err := storage.Open(ctx, config.StorageDisk())
//	err = disk.Put(ctx, "products/01HV....jpg", data, "image/jpeg")
//	url := disk.URL("products/01HV....jpg")
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/eburutu/mart/config"
)

// ErrNotFound is returned by Get when nothing is stored at path.
var ErrNotFound = errors.New("storage: object not found")

// Disk is one storage backend. Paths use forward slashes.
type Disk interface {
	Put(ctx context.Context, path string, content []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	// Delete is a no-op for missing paths.
	Delete(ctx context.Context, path string) error
	// URL is the public address of path.
	URL(path string) string
}

// Open builds the named disk ("local" or "s3") from config.
func Open(ctx context.Context, name string) (Disk, error) {
	switch name {
	case "", "local":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return newS3Disk(ctx, s3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", name)
	}
}
