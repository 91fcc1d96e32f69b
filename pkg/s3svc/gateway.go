// Package s3svc is the storage gateway of s3tui: it lists buckets, objects
// and versions, fetches object metadata and streams object contents from an
// S3-compatible service.
package s3svc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/sgaunet/s3tui/pkg/config"
	"github.com/sgaunet/s3tui/pkg/dto"
)

var (
	// ErrGatewayUnavailable is returned when a listing or a fetch fails
	// (network, credentials, throttling...).
	ErrGatewayUnavailable = errors.New("storage gateway unavailable")
	// ErrNotFound is returned when the bucket, the object or the version
	// does not exist.
	ErrNotFound = errors.New("not found")
)

// Gateway is the set of storage operations used by s3tui.
type Gateway interface {
	ListBuckets(ctx context.Context) ([]dto.BucketEntry, error)
	// ListObjects returns the pages of the delimited listing of prefix.
	// The sequence stops after the first error.
	ListObjects(ctx context.Context, bucket, prefix, delimiter string) iter.Seq2[dto.ListingPage, error]
	ListVersions(ctx context.Context, bucket, key string) ([]dto.VersionEntry, error)
	HeadObject(ctx context.Context, bucket, key, version string) (dto.ObjectDetail, error)
	// GetObject streams the content of an object. An empty version reads
	// the latest one. The caller closes the reader.
	GetObject(ctx context.Context, bucket, key, version string) (io.ReadCloser, error)
}

// New returns the gateway selected by cfg.Driver.
func New(ctx context.Context, cfg config.S3Config, log *slog.Logger) (Gateway, error) {
	switch cfg.Driver {
	case config.DriverMinio:
		svc, err := NewMinioSvc(cfg)
		if err != nil {
			return nil, err
		}
		svc.SetLogger(log)
		return svc, nil
	case config.DriverAWS, "":
		awsCfg, err := NewAwsConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		svc := NewS3Svc(cfg, NewS3Client(awsCfg, cfg))
		svc.SetLogger(log)
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCancelled reports whether err comes from a cancelled context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func wrap(op string, kind error, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
