package blob

import (
	"context"
	"fmt"

	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/config"
)

// New builds the Store selected by cfg.Backend.
func New(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	switch cfg.Backend {
	case "disk":
		return NewDiskStore(cfg.Dir)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Endpoint:  cfg.S3.Endpoint,
			PublicURL: cfg.S3.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown blob backend: %s", cfg.Backend)
	}
}
