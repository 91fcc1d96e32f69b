// Package s3svc_test tests the s3svc package functionality
package s3svc_test

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3tui/pkg/config"
	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/health"
	"github.com/sgaunet/s3tui/pkg/s3svc"
)

// TestNewS3Svc tests creating a new service
func TestNewS3Svc(t *testing.T) {
	service := s3svc.NewS3Svc(config.S3Config{Bucket: "test-bucket"}, nil)
	require.NotNil(t, service)

	// Set a logger, if it doesn't panic, the test passes
	service.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.SetLogger(nil)
}

// TestListBuckets_ConfiguredBucket checks that no request is made when a bucket is configured
func TestListBuckets_ConfiguredBucket(t *testing.T) {
	service := s3svc.NewS3Svc(config.S3Config{Bucket: "test-bucket"}, nil)
	buckets, err := service.ListBuckets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dto.BucketEntry{{Name: "test-bucket"}}, buckets)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := s3svc.New(context.Background(), config.S3Config{Driver: "gcs"}, nil)
	assert.Error(t, err)
}

func TestNew_Minio(t *testing.T) {
	gw, err := s3svc.New(context.Background(), config.S3Config{
		Driver:    config.DriverMinio,
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		APIKey:    "minio123",
		Bucket:    "data",
	}, nil)
	require.NoError(t, err)
	buckets, err := gw.ListBuckets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "data", buckets[0].Name)
}

func TestConsoleURL(t *testing.T) {
	cfg := config.S3Config{Region: "eu-west-1"}

	testCases := []struct {
		name     string
		bucket   string
		prefix   string
		key      string
		expected string
	}{
		{name: "bucket list", expected: "https://s3.console.aws.amazon.com/s3/buckets"},
		{name: "bucket", bucket: "data",
			expected: "https://s3.console.aws.amazon.com/s3/buckets/data?region=eu-west-1"},
		{name: "prefix", bucket: "data", prefix: "logs/2024/",
			expected: "https://s3.console.aws.amazon.com/s3/buckets/data?prefix=logs%2F2024%2F&region=eu-west-1&showversions=false"},
		{name: "object", bucket: "data", prefix: "logs/", key: "logs/app.log",
			expected: "https://s3.console.aws.amazon.com/s3/object/data?prefix=logs%2Fapp.log&region=eu-west-1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := s3svc.ConsoleURL(cfg, tc.bucket, tc.prefix, tc.key)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, u)
		})
	}

	_, err := s3svc.ConsoleURL(config.S3Config{Endpoint: "http://localhost:9000"}, "data", "", "")
	assert.ErrorIs(t, err, s3svc.ErrNoConsole)
}

func TestObjectIdentifiers(t *testing.T) {
	assert.Equal(t, "s3://data/a/b c.txt", s3svc.ObjectURI("data", "a/b c.txt"))
	assert.Equal(t, "arn:aws:s3:::data/a/b.txt", s3svc.ObjectARN("data", "a/b.txt"))
	assert.Equal(t, "https://data.s3.eu-west-1.amazonaws.com/a/b%20c.txt",
		s3svc.ObjectURL(config.S3Config{Region: "eu-west-1"}, "data", "a/b c.txt"))
	assert.Equal(t, "http://localhost:9000/data/a.txt",
		s3svc.ObjectURL(config.S3Config{Endpoint: "http://localhost:9000/"}, "data", "a.txt"))
}

// MockGateway is a testify mock of s3svc.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListBuckets(ctx context.Context) ([]dto.BucketEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.BucketEntry), args.Error(1)
}

func (m *MockGateway) ListObjects(ctx context.Context, bucket, prefix, delimiter string) iter.Seq2[dto.ListingPage, error] {
	args := m.Called(ctx, bucket, prefix, delimiter)
	return args.Get(0).(iter.Seq2[dto.ListingPage, error])
}

func (m *MockGateway) ListVersions(ctx context.Context, bucket, key string) ([]dto.VersionEntry, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.VersionEntry), args.Error(1)
}

func (m *MockGateway) HeadObject(ctx context.Context, bucket, key, version string) (dto.ObjectDetail, error) {
	args := m.Called(ctx, bucket, key, version)
	return args.Get(0).(dto.ObjectDetail), args.Error(1)
}

func (m *MockGateway) GetObject(ctx context.Context, bucket, key, version string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func TestMonitor(t *testing.T) {
	ctx := context.Background()
	unavailable := errors.Join(s3svc.ErrGatewayUnavailable, errors.New("connection refused"))
	notFound := errors.Join(s3svc.ErrNotFound, errors.New("NoSuchKey"))

	gw := new(MockGateway)
	gw.On("ListBuckets", ctx).Return(nil, unavailable).Once()
	gw.On("ListBuckets", ctx).Return([]dto.BucketEntry{{Name: "data"}}, nil).Once()
	gw.On("HeadObject", ctx, "data", "missing", "").Return(dto.ObjectDetail{}, notFound)
	gw.On("GetObject", ctx, "data", "gone", "").Return(nil, context.Canceled)

	tracker := health.NewTracker(nil)
	monitored := s3svc.Monitor(gw, tracker)

	_, err := monitored.ListBuckets(ctx)
	assert.ErrorIs(t, err, s3svc.ErrGatewayUnavailable)
	assert.Equal(t, health.StatusUnhealthy, tracker.GetHealthInfo().Status)

	buckets, err := monitored.ListBuckets(ctx)
	require.NoError(t, err)
	assert.Len(t, buckets, 1)
	assert.True(t, tracker.IsHealthy())

	_, err = monitored.HeadObject(ctx, "data", "missing", "")
	assert.True(t, s3svc.IsNotFound(err))
	assert.True(t, tracker.IsHealthy(), "a missing object does not make the gateway unhealthy")

	_, err = monitored.GetObject(ctx, "data", "gone", "")
	assert.True(t, s3svc.IsCancelled(err))
	assert.True(t, tracker.IsHealthy())

	gw.AssertExpectations(t)
}

func TestMonitor_ListObjects(t *testing.T) {
	ctx := context.Background()
	pages := func(yield func(dto.ListingPage, error) bool) {
		if !yield(dto.ListingPage{Objects: []dto.ObjectEntry{{Key: "a"}}}, nil) {
			return
		}
		yield(dto.ListingPage{}, s3svc.ErrGatewayUnavailable)
	}
	gw := new(MockGateway)
	gw.On("ListObjects", ctx, "data", "", "/").Return(iter.Seq2[dto.ListingPage, error](pages))

	tracker := health.NewTracker(nil)
	var got []string
	var lastErr error
	for page, err := range s3svc.Monitor(gw, tracker).ListObjects(ctx, "data", "", "/") {
		if err != nil {
			lastErr = err
			break
		}
		for _, o := range page.Objects {
			got = append(got, o.Key)
		}
	}
	assert.Equal(t, []string{"a"}, got)
	assert.ErrorIs(t, lastErr, s3svc.ErrGatewayUnavailable)
	assert.False(t, tracker.IsHealthy())
}
