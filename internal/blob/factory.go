package blob

import (
	"context"
	"fmt"

	"diocese/internal/blob/core"
	"diocese/internal/infra/blob/fs"
	memorystore "diocese/internal/infra/blob/memory"
	infraS3 "diocese/internal/infra/blob/s3"
	"diocese/internal/platform/config"
)

// Open selects a Store from configuration. The filesystem driver is the
// default.
func Open(ctx context.Context, cfg config.Blob) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch core.Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

// NewFilesystem constructs a filesystem-backed Store rooted at root.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memorystore.New() }

// S3Config re-exports the S3 driver configuration.
type S3Config = infraS3.Config

// NewS3 constructs an S3-backed Store.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return infraS3.New(ctx, cfg)
}

// NewMockS3ForTests exposes the in-memory S3 transport fake for cross-package tests.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests() }
