package s3svc

import (
	"context"
	"io"
	"iter"

	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/health"
)

type monitored struct {
	gw      Gateway
	tracker *health.Tracker
}

// Monitor returns a Gateway recording the outcome of every call of gw in
// tracker. Missing objects and cancelled calls count as reachable.
func Monitor(gw Gateway, tracker *health.Tracker) Gateway {
	return &monitored{gw: gw, tracker: tracker}
}

func (m *monitored) record(err error) {
	if err != nil && (IsNotFound(err) || IsCancelled(err)) {
		err = nil
	}
	m.tracker.Record(err)
}

func (m *monitored) ListBuckets(ctx context.Context) ([]dto.BucketEntry, error) {
	buckets, err := m.gw.ListBuckets(ctx)
	m.record(err)
	return buckets, err
}

func (m *monitored) ListObjects(ctx context.Context, bucket, prefix, delimiter string) iter.Seq2[dto.ListingPage, error] {
	return func(yield func(dto.ListingPage, error) bool) {
		for page, err := range m.gw.ListObjects(ctx, bucket, prefix, delimiter) {
			m.record(err)
			if !yield(page, err) || err != nil {
				return
			}
		}
	}
}

func (m *monitored) ListVersions(ctx context.Context, bucket, key string) ([]dto.VersionEntry, error) {
	versions, err := m.gw.ListVersions(ctx, bucket, key)
	m.record(err)
	return versions, err
}

func (m *monitored) HeadObject(ctx context.Context, bucket, key, version string) (dto.ObjectDetail, error) {
	detail, err := m.gw.HeadObject(ctx, bucket, key, version)
	m.record(err)
	return detail, err
}

func (m *monitored) GetObject(ctx context.Context, bucket, key, version string) (io.ReadCloser, error) {
	r, err := m.gw.GetObject(ctx, bucket, key, version)
	m.record(err)
	return r, err
}
