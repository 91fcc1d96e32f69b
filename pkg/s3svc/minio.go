package s3svc

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sgaunet/s3tui/pkg/config"
	"github.com/sgaunet/s3tui/pkg/dto"
)

// minioPageSize is the number of entries grouped in one page of the minio
// driver, which streams entries one by one.
const minioPageSize = 1000

// MinioService is the minio-go implementation of Gateway.
// minio-go only lists with the "/" delimiter.
type MinioService struct {
	cfg    config.S3Config
	client *minio.Client
	log    *slog.Logger
}

// NewMinioSvc creates a minio client for cfg.Endpoint.
func NewMinioSvc(cfg config.S3Config) (*MinioService, error) {
	host, secure := endpointHost(cfg.Endpoint)
	lookup := minio.BucketLookupAuto
	if cfg.PathStyle {
		lookup = minio.BucketLookupPath
	}

	var creds *credentials.Credentials
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.APIKey, "")
	} else {
		creds = credentials.NewEnvAWS()
	}

	client, err := minio.New(host, &minio.Options{
		Creds:        creds,
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("NewMinioSvc: error creating client: %w", err)
	}
	return &MinioService{
		cfg:    cfg,
		client: client,
		log:    slog.New(slog.DiscardHandler),
	}, nil
}

// SetLogger sets the logger
func (m *MinioService) SetLogger(log *slog.Logger) {
	if log != nil {
		m.log = log
	}
}

// endpointHost strips the scheme of endpoint. Without a scheme, TLS is used
// except for local endpoints.
func endpointHost(endpoint string) (string, bool) {
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		return u.Host, u.Scheme == "https"
	}
	host := strings.TrimSuffix(endpoint, "/")
	name := strings.Split(host, ":")[0]
	if name == "localhost" || name == "127.0.0.1" {
		return host, false
	}
	return host, true
}

// ListBuckets returns the buckets, or the configured bucket only.
func (m *MinioService) ListBuckets(ctx context.Context) ([]dto.BucketEntry, error) {
	if m.cfg.Bucket != "" {
		return []dto.BucketEntry{{Name: m.cfg.Bucket}}, nil
	}
	infos, err := m.client.ListBuckets(ctx)
	if err != nil {
		m.log.Error("Failed to list buckets", slog.String("error", err.Error()))
		return nil, classifyMinio("ListBuckets", err)
	}
	buckets := make([]dto.BucketEntry, 0, len(infos))
	for _, info := range infos {
		buckets = append(buckets, dto.BucketEntry{Name: info.Name, CreationDate: info.CreationDate})
	}
	return buckets, nil
}

// ListObjects groups the streamed entries of prefix into pages.
func (m *MinioService) ListObjects(ctx context.Context, bucket, prefix, _ string) iter.Seq2[dto.ListingPage, error] {
	return func(yield func(dto.ListingPage, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var page dto.ListingPage
		count := 0
		for obj := range m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix}) {
			if obj.Err != nil {
				yield(dto.ListingPage{}, classifyMinio("ListObjects", obj.Err))
				return
			}
			switch {
			case obj.Key == prefix:
			case dto.IsDirKey(obj.Key):
				page.CommonPrefixes = append(page.CommonPrefixes, dto.NewPrefixEntry(obj.Key, prefix))
			default:
				page.Objects = append(page.Objects, dto.ObjectEntry{
					Segment:      dto.SegmentOf(obj.Key, prefix),
					Key:          obj.Key,
					Size:         obj.Size,
					LastModified: obj.LastModified,
					ETag:         obj.ETag,
					StorageClass: obj.StorageClass,
				})
			}
			count++
			if count == minioPageSize {
				page.ContinuationToken = obj.Key
				if !yield(page, nil) {
					return
				}
				page, count = dto.ListingPage{}, 0
			}
		}
		if ctx.Err() != nil {
			yield(dto.ListingPage{}, classifyMinio("ListObjects", ctx.Err()))
			return
		}
		yield(page, nil)
	}
}

// ListVersions returns the versions of key, newest first.
func (m *MinioService) ListVersions(ctx context.Context, bucket, key string) ([]dto.VersionEntry, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	versions := []dto.VersionEntry{}
	opts := minio.ListObjectsOptions{Prefix: key, WithVersions: true, Recursive: true}
	for obj := range m.client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, classifyMinio("ListVersions", obj.Err)
		}
		if obj.Key != key {
			continue
		}
		versions = append(versions, dto.VersionEntry{
			VersionID:      obj.VersionID,
			Size:           obj.Size,
			LastModified:   obj.LastModified,
			ETag:           obj.ETag,
			IsLatest:       obj.IsLatest,
			IsDeleteMarker: obj.IsDeleteMarker,
		})
	}
	sortVersions(versions)
	return versions, nil
}

// HeadObject returns the metadata of an object.
func (m *MinioService) HeadObject(ctx context.Context, bucket, key, version string) (dto.ObjectDetail, error) {
	info, err := m.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{VersionID: version})
	if err != nil {
		return dto.ObjectDetail{}, classifyMinio("HeadObject", err)
	}
	storageClass := info.StorageClass
	if storageClass == "" {
		storageClass = "STANDARD"
	}
	return dto.ObjectDetail{
		Bucket:       bucket,
		Key:          key,
		Name:         dto.BaseName(key),
		Size:         info.Size,
		LastModified: info.LastModified,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		StorageClass: storageClass,
		VersionID:    info.VersionID,
		Metadata:     map[string]string(info.UserMetadata),
	}, nil
}

// GetObject streams the content of an object. The object is stat'ed first so
// a missing key fails here and not on the first read.
func (m *MinioService) GetObject(ctx context.Context, bucket, key, version string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{VersionID: version})
	if err != nil {
		return nil, classifyMinio("GetObject", err)
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, classifyMinio("GetObject", err)
	}
	return obj, nil
}
