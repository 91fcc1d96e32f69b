// Package s3svctest provides an in-memory s3svc.Gateway for tests.
package s3svctest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/s3svc"
)

type version struct {
	id      string
	data    []byte
	modTime time.Time
}

// Memory is a Gateway backed by maps. It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	buckets  map[string]map[string][]version
	created  map[string]time.Time
	failures map[string]error
	down     error
	calls    map[string]int
	getHook  func(key string)

	// PageSize is the number of entries per listing page (default 1000).
	PageSize int
}

// NewMemory returns an empty gateway.
func NewMemory() *Memory {
	return &Memory{
		buckets:  map[string]map[string][]version{},
		created:  map[string]time.Time{},
		failures: map[string]error{},
		calls:    map[string]int{},
		PageSize: 1000,
	}
}

// AddBucket creates an empty bucket.
func (m *Memory) AddBucket(bucket string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addBucket(bucket)
}

func (m *Memory) addBucket(bucket string) {
	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = map[string][]version{}
		m.created[bucket] = time.Date(2024, 1, len(m.buckets), 0, 0, 0, 0, time.UTC)
	}
}

// Put stores a new version of key, creating the bucket if needed. Version
// ids are "v1", "v2"... in insertion order.
func (m *Memory) Put(bucket, key string, data []byte, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addBucket(bucket)
	versions := m.buckets[bucket][key]
	m.buckets[bucket][key] = append(versions, version{
		id:      fmt.Sprintf("v%d", len(versions)+1),
		data:    data,
		modTime: modTime,
	})
}

// PutString is Put with a fixed modification time.
func (m *Memory) PutString(bucket, key, data string) {
	m.Put(bucket, key, []byte(data), time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
}

// FailGet makes GetObject and HeadObject of key fail with err.
func (m *Memory) FailGet(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[key] = err
}

// SetDown makes every call fail with err wrapped in ErrGatewayUnavailable. A
// nil err brings the gateway back.
func (m *Memory) SetDown(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = err
}

// OnGet registers a function called at the start of every GetObject.
func (m *Memory) OnGet(fn func(key string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getHook = fn
}

// Calls returns the number of calls of an operation ("ListBuckets",
// "ListObjects" pages, "ListVersions", "HeadObject", "GetObject").
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *Memory) enter(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	if m.down != nil {
		return fmt.Errorf("%s: %w: %w", op, s3svc.ErrGatewayUnavailable, m.down)
	}
	return nil
}

func notFound(op, what string) error {
	return fmt.Errorf("%s: %w: %s", op, s3svc.ErrNotFound, what)
}

// ListBuckets returns the buckets sorted by name.
func (m *Memory) ListBuckets(ctx context.Context) ([]dto.BucketEntry, error) {
	if err := m.enter("ListBuckets"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.buckets))
	for name := range m.buckets {
		names = append(names, name)
	}
	slices.Sort(names)
	buckets := make([]dto.BucketEntry, 0, len(names))
	for _, name := range names {
		buckets = append(buckets, dto.BucketEntry{Name: name, CreationDate: m.created[name]})
	}
	return buckets, nil
}

// ListObjects lists prefix with the delimiter, in key order, PageSize
// entries per page.
func (m *Memory) ListObjects(ctx context.Context, bucket, prefix, delimiter string) iter.Seq2[dto.ListingPage, error] {
	return func(yield func(dto.ListingPage, error) bool) {
		entries, listErr := m.listing(bucket, prefix, delimiter)
		pageSize := max(m.PageSize, 1)
		for start := 0; ; start += pageSize {
			if err := m.enter("ListObjects"); err != nil {
				yield(dto.ListingPage{}, err)
				return
			}
			if listErr != nil {
				yield(dto.ListingPage{}, listErr)
				return
			}
			if err := ctx.Err(); err != nil {
				yield(dto.ListingPage{}, fmt.Errorf("ListObjects: %w", err))
				return
			}
			end := min(start+pageSize, len(entries))
			var page dto.ListingPage
			for _, e := range entries[start:end] {
				if e.IsPrefix {
					page.CommonPrefixes = append(page.CommonPrefixes, e)
				} else {
					page.Objects = append(page.Objects, e)
				}
			}
			if end < len(entries) {
				page.ContinuationToken = entries[end-1].Key
			}
			if !yield(page, nil) || end >= len(entries) {
				return
			}
		}
	}
}

func (m *Memory) listing(bucket, prefix, delimiter string) ([]dto.ObjectEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	objects, ok := m.buckets[bucket]
	if !ok {
		return nil, notFound("ListObjects", bucket)
	}

	keys := make([]string, 0, len(objects))
	for key := range objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	entries := []dto.ObjectEntry{}
	seen := map[string]bool{}
	for _, key := range keys {
		rest := strings.TrimPrefix(key, prefix)
		if delimiter != "" {
			if idx := strings.Index(rest, delimiter); idx != -1 {
				p := prefix + rest[:idx+len(delimiter)]
				if !seen[p] {
					seen[p] = true
					entries = append(entries, dto.NewPrefixEntry(p, prefix))
				}
				continue
			}
		}
		if key == prefix {
			continue
		}
		latest := objects[key][len(objects[key])-1]
		entries = append(entries, dto.ObjectEntry{
			Segment:      dto.SegmentOf(key, prefix),
			Key:          key,
			Size:         int64(len(latest.data)),
			LastModified: latest.modTime,
			ETag:         fmt.Sprintf("%q", latest.id),
			StorageClass: "STANDARD",
		})
	}
	return entries, nil
}

func (m *Memory) find(op, bucket, key, versionID string) (version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failures[key]; ok {
		return version{}, err
	}
	versions, ok := m.buckets[bucket][key]
	if !ok || len(versions) == 0 {
		return version{}, notFound(op, key)
	}
	if versionID == "" {
		return versions[len(versions)-1], nil
	}
	for _, v := range versions {
		if v.id == versionID {
			return v, nil
		}
	}
	return version{}, notFound(op, key+"@"+versionID)
}

// ListVersions returns the versions of key, newest first.
func (m *Memory) ListVersions(ctx context.Context, bucket, key string) ([]dto.VersionEntry, error) {
	if err := m.enter("ListVersions"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	versions := m.buckets[bucket][key]
	result := make([]dto.VersionEntry, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		result = append(result, dto.VersionEntry{
			VersionID:    v.id,
			Size:         int64(len(v.data)),
			LastModified: v.modTime,
			ETag:         fmt.Sprintf("%q", v.id),
			IsLatest:     i == len(versions)-1,
		})
	}
	return result, nil
}

// HeadObject returns the metadata of a version of key.
func (m *Memory) HeadObject(ctx context.Context, bucket, key, versionID string) (dto.ObjectDetail, error) {
	if err := m.enter("HeadObject"); err != nil {
		return dto.ObjectDetail{}, err
	}
	v, err := m.find("HeadObject", bucket, key, versionID)
	if err != nil {
		return dto.ObjectDetail{}, err
	}
	return dto.ObjectDetail{
		Bucket:       bucket,
		Key:          key,
		Name:         dto.BaseName(key),
		Size:         int64(len(v.data)),
		LastModified: v.modTime,
		ETag:         fmt.Sprintf("%q", v.id),
		ContentType:  "application/octet-stream",
		StorageClass: "STANDARD",
		VersionID:    v.id,
	}, nil
}

// GetObject returns the content of a version of key.
func (m *Memory) GetObject(ctx context.Context, bucket, key, versionID string) (io.ReadCloser, error) {
	m.mu.Lock()
	hook := m.getHook
	m.mu.Unlock()
	if hook != nil {
		hook(key)
	}
	if err := m.enter("GetObject"); err != nil {
		return nil, err
	}
	v, err := m.find("GetObject", bucket, key, versionID)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(v.data)), nil
}
