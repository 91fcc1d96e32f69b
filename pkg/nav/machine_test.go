package nav_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3tui/pkg/cache"
	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/nav"
	"github.com/sgaunet/s3tui/pkg/preview"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func file(prefix, name string, size int64) dto.ObjectEntry {
	return dto.ObjectEntry{
		Segment:      name,
		Key:          prefix + name,
		Size:         size,
		LastModified: t0,
	}
}

func dir(prefix, name string) dto.ObjectEntry {
	return dto.NewPrefixEntry(prefix+name+"/", prefix)
}

// started returns a machine showing buckets a and b.
func started(t *testing.T) (*nav.Machine, *cache.ListingCache) {
	t.Helper()
	c := cache.New()
	m := nav.NewMachine(c, "/")
	req := m.Start()
	require.Equal(t, nav.LoadBuckets, req.Kind)
	m.CompleteBuckets(req.Token, []dto.BucketEntry{{Name: "a"}, {Name: "b"}}, nil)
	return m, c
}

// openBucket opens the selected bucket and completes its listing.
func openBucket(t *testing.T, m *nav.Machine, entries []dto.ObjectEntry) {
	t.Helper()
	req := m.Open()
	require.Equal(t, nav.LoadListing, req.Kind)
	m.CompleteListing(nav.ListingResult{Request: req, Entries: entries})
}

func TestStart(t *testing.T) {
	m, _ := started(t)

	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, nav.BucketList, m.Current().Kind())
	assert.Equal(t, 2, m.Current().Len())
	assert.Equal(t, 0, m.Current().Selected)
}

func TestStart_Failure(t *testing.T) {
	m := nav.NewMachine(cache.New(), "")
	req := m.Start()
	m.CompleteBuckets(req.Token, nil, errors.New("access denied"))

	b, ok := m.Banner()
	require.True(t, ok)
	assert.Equal(t, nav.Error, b.Level)
	assert.Equal(t, -1, m.Current().Selected)
}

func TestOpenBack_RestoresFrame(t *testing.T) {
	m, c := started(t)
	m.Move(1)
	openBucket(t, m, []dto.ObjectEntry{dir("", "logs"), file("", "a.txt", 1), file("", "b.txt", 2)})

	require.Equal(t, 1, m.Depth())
	assert.Equal(t, "b", m.Current().Bucket)
	assert.Equal(t, 1, c.Len())

	m.Move(2)
	m.ApplyFilter("txt")
	before := *m.Current()

	req := m.Open()
	require.Equal(t, nav.LoadDetail, req.Kind)
	require.Equal(t, 2, m.Depth())

	assert.True(t, m.Back())
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, before, *m.Current())

	assert.True(t, m.Back())
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, 1, m.Current().Selected, "bucket selection is kept")

	assert.False(t, m.Back(), "back at the root is a no-op")
	assert.Equal(t, 0, m.Depth())
}

func TestOpen_CachedListingSkipsFetch(t *testing.T) {
	m, _ := started(t)
	openBucket(t, m, []dto.ObjectEntry{file("", "a.txt", 1)})
	m.Back()

	req := m.Open()
	assert.True(t, req.IsZero())
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, 1, m.Current().Len())
}

func TestOpen_FailedListingKeepsFrame(t *testing.T) {
	m, c := started(t)

	req := m.Open()
	assert.True(t, m.Loading())
	m.CompleteListing(nav.ListingResult{Request: req, Err: errors.New("boom")})

	assert.False(t, m.Loading())
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, 0, c.Len())
	b, ok := m.Banner()
	require.True(t, ok)
	assert.Equal(t, nav.Error, b.Level)
	assert.Contains(t, b.Message, "boom")

	assert.True(t, m.ConsumeKey(), "the key acknowledging an error is swallowed")
	_, ok = m.Banner()
	assert.False(t, ok)
	assert.False(t, m.ConsumeKey())
}

func TestCompleteListing_StaleResultIgnored(t *testing.T) {
	m, c := started(t)

	stale := m.Open()
	m.Back()
	assert.False(t, m.Loading(), "back cancels the pending open")

	m.CompleteListing(nav.ListingResult{Request: stale, Entries: []dto.ObjectEntry{file("", "x", 1)}})
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, 0, c.Len())

	first := m.Open()
	m.Move(1)
	second := m.Open()
	assert.NotEqual(t, first.Token, second.Token)
	m.CompleteListing(nav.ListingResult{Request: first, Entries: []dto.ObjectEntry{file("", "x", 1)}})
	assert.Equal(t, 0, m.Depth())
	m.CompleteListing(nav.ListingResult{Request: second, Entries: []dto.ObjectEntry{file("", "y", 1)}})
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, "b", m.Current().Bucket)
}

func TestOpenDetail_DropsPendingListing(t *testing.T) {
	m, c := started(t)
	openBucket(t, m, []dto.ObjectEntry{dir("", "logs"), file("", "a.txt", 1)})

	listing := m.Open()
	require.Equal(t, nav.LoadListing, listing.Kind)
	require.True(t, m.Loading())

	m.Move(1)
	detail := m.Open()
	require.Equal(t, nav.LoadDetail, detail.Kind)
	assert.False(t, m.Loading())

	m.CompleteListing(nav.ListingResult{Request: listing, Entries: []dto.ObjectEntry{file("logs/", "x.log", 1)}})
	assert.Equal(t, 2, m.Depth())
	assert.Equal(t, nav.ObjectDetail, m.Current().Kind())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "a / a.txt", m.Breadcrumb())

	m.Back()
	assert.Equal(t, nav.ObjectList, m.Current().Kind())
	assert.Empty(t, m.Current().Prefix)
}

func TestCompleteDetail_StaleResultIgnored(t *testing.T) {
	m, _ := started(t)
	openBucket(t, m, []dto.ObjectEntry{file("", "a.txt", 1)})

	req := m.Open()
	m.Back()
	m.CompleteDetail(req.Token, dto.ObjectDetail{Key: "a.txt"}, nil)

	again := m.Open()
	v := m.Current().View.(*nav.ObjectDetailView)
	assert.True(t, v.Loading)
	m.CompleteDetail(again.Token, dto.ObjectDetail{Key: "a.txt", Size: 1}, nil)
	assert.False(t, v.Loading)
	require.NotNil(t, v.Detail)
	assert.Equal(t, int64(1), v.Detail.Size)
}

func TestArrange_DirsFirst(t *testing.T) {
	m, _ := started(t)
	openBucket(t, m, []dto.ObjectEntry{
		file("", "zeta.txt", 3),
		dir("", "b"),
		file("", "alpha.txt", 1),
		dir("", "a"),
	})

	names := func() []string {
		var out []string
		for _, e := range m.Current().Entries() {
			out = append(out, e.DisplayName())
		}
		return out
	}

	m.ApplySort(nav.SortKey{Field: nav.SortName})
	assert.Equal(t, []string{"a", "b", "alpha.txt", "zeta.txt"}, names())

	m.ApplySort(nav.SortKey{Field: nav.SortName, Desc: true})
	assert.Equal(t, []string{"b", "a", "zeta.txt", "alpha.txt"}, names())

	m.ApplySort(nav.SortKey{Field: nav.SortSize, Desc: true})
	assert.Equal(t, []string{"b", "a", "zeta.txt", "alpha.txt"}, names())
}

func TestFilter_SelectionClamped(t *testing.T) {
	m, _ := started(t)
	openBucket(t, m, []dto.ObjectEntry{
		file("", "image1.png", 1),
		file("", "notes.md", 1),
		file("", "img.jpg", 1),
		file("", "readme", 1),
	})
	m.GoBottom()
	assert.Equal(t, 3, m.Current().Selected)

	m.ApplyFilter("img")
	entries := m.Current().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "image1.png", entries[0].Key)
	assert.Equal(t, "img.jpg", entries[1].Key)
	assert.Equal(t, 1, m.Current().Selected)

	m.ApplyFilter("nothing matches")
	assert.Equal(t, 0, m.Current().Len())
	assert.Equal(t, -1, m.Current().Selected)
	_, ok := m.Selection()
	assert.False(t, ok)

	m.ApplyFilter("")
	assert.Equal(t, 4, m.Current().Len())
	assert.Equal(t, 0, m.Current().Selected)
}

func TestFilterOverlay_CancelRestores(t *testing.T) {
	m, _ := started(t)
	openBucket(t, m, []dto.ObjectEntry{file("", "a", 1), file("", "b", 1)})
	m.ApplyFilter("a")

	require.True(t, m.OpenFilter())
	o, ok := m.Overlay()
	require.True(t, ok)
	assert.Equal(t, nav.FilterInput, o.Kind)
	assert.Equal(t, "a", o.Text)

	m.ApplyFilter("zz")
	m.CancelFilter()
	_, ok = m.Overlay()
	assert.False(t, ok)
	assert.Equal(t, "a", m.Current().Filter)
	assert.Equal(t, 1, m.Current().Len())
}

func TestSortMenu(t *testing.T) {
	m, _ := started(t)
	openBucket(t, m, []dto.ObjectEntry{file("", "b", 1), file("", "a", 2)})

	require.True(t, m.OpenSortMenu())
	o, _ := m.Overlay()
	assert.Equal(t, 0, o.Cursor)
	o.MoveCursor(1)
	m.ConfirmSort()

	assert.Equal(t, nav.SortKey{Field: nav.SortName}, m.Current().Sort)
	assert.Equal(t, "a", m.Current().Entries()[0].Key)

	require.True(t, m.OpenSortMenu())
	o, _ = m.Overlay()
	assert.Equal(t, 1, o.Cursor, "cursor starts on the current key")
	o.MoveCursor(-2)
	assert.Equal(t, len(o.Items)-1, o.Cursor)
}

func TestRefresh_ReplacesListing(t *testing.T) {
	m, c := started(t)
	openBucket(t, m, []dto.ObjectEntry{file("", "a", 1), file("", "b", 1), file("", "c", 1)})
	m.GoBottom()

	req := m.Refresh()
	require.Equal(t, nav.LoadListing, req.Kind)
	assert.True(t, req.Refresh)
	m.CompleteListing(nav.ListingResult{Request: req, Entries: []dto.ObjectEntry{file("", "a", 1)}})

	assert.Equal(t, 1, m.Depth(), "a refresh does not push a frame")
	assert.Equal(t, 1, m.Current().Len())
	assert.Equal(t, 0, m.Current().Selected)
	l, ok := c.Get("a", "")
	require.True(t, ok)
	assert.Len(t, l.Entries, 1)
}

func TestVersionsAndPreview(t *testing.T) {
	m, _ := started(t)
	openBucket(t, m, []dto.ObjectEntry{file("", "a.txt", 5)})
	m.Open()

	req := m.OpenVersions()
	require.Equal(t, nav.LoadVersions, req.Kind)
	assert.Equal(t, "a.txt", req.Key)
	m.CompleteVersions(req.Token, []dto.VersionEntry{
		{VersionID: "v2", Size: 5, IsLatest: true},
		{VersionID: "dm", IsDeleteMarker: true},
		{VersionID: "v1", Size: 3},
	}, nil)
	assert.Equal(t, 3, m.Current().Len())

	m.Move(1)
	req = m.OpenPreview()
	assert.True(t, req.IsZero(), "a delete marker has no content")
	b, _ := m.Banner()
	assert.Equal(t, nav.Warn, b.Level)
	_, ok := m.Selection()
	assert.False(t, ok)

	m.Move(1)
	sel, ok := m.Selection()
	require.True(t, ok)
	assert.Equal(t, nav.Selection{Bucket: "a", Key: "a.txt", Version: "v1", Size: 3}, sel)

	req = m.Open()
	require.Equal(t, nav.LoadPreview, req.Kind)
	assert.Equal(t, "v1", req.Version)
	assert.Equal(t, int64(3), req.Size)
	assert.Equal(t, nav.ObjectPreview, m.Current().Kind())
	assert.Equal(t, "a / a.txt", m.Breadcrumb())

	m.CompletePreview(nav.PreviewResult{
		Request: req,
		Content: preview.Text{Decoded: "abc", EncodingUsed: "utf-8"},
		Data:    []byte("abc"),
	})
	p := m.Current().View.(*nav.ObjectPreviewView)
	assert.False(t, p.Loading)
	assert.Equal(t, preview.Text{Decoded: "abc", EncodingUsed: "utf-8"}, p.Content)

	require.True(t, m.OpenEncodingMenu([]string{"utf-8", "shift_jis"}))
	o, _ := m.Overlay()
	o.MoveCursor(1)
	redecode := m.ConfirmEncoding()
	require.Equal(t, nav.RedecodePreview, redecode.Kind)
	assert.Equal(t, "shift_jis", redecode.Encoding)
	assert.Equal(t, []byte("abc"), redecode.Data)

	// the preview of the original request is now stale
	m.CompletePreview(nav.PreviewResult{Request: req, Content: preview.Unsupported{Reason: "late"}})
	assert.Equal(t, preview.Text{Decoded: "abc", EncodingUsed: "utf-8"}, p.Content)

	m.CompletePreview(nav.PreviewResult{Request: redecode, Err: preview.ErrDecodeFailure})
	assert.IsType(t, preview.Failed{}, p.Content)
	assert.Equal(t, []byte("abc"), p.Data, "the raw data survives a failed decode")
}

func TestHandle(t *testing.T) {
	m, _ := started(t)

	_, handled := m.Handle(nav.Versions, 10)
	assert.False(t, handled, "versions are not available on the bucket list")
	_, handled = m.Handle(nav.Download, 10)
	assert.False(t, handled, "downloads are run by the caller")

	req, handled := m.Handle(nav.Open, 10)
	assert.True(t, handled)
	m.CompleteListing(nav.ListingResult{Request: req, Entries: []dto.ObjectEntry{
		file("", "1", 1), file("", "2", 1), file("", "3", 1), file("", "4", 1), file("", "5", 1),
	}})

	m.Handle(nav.PageDown, 3)
	assert.Equal(t, 3, m.Current().Selected)
	m.Handle(nav.PageDown, 3)
	assert.Equal(t, 4, m.Current().Selected)
	m.Handle(nav.GoTop, 3)
	assert.Equal(t, 0, m.Current().Selected)
	m.Handle(nav.MoveUp, 3)
	assert.Equal(t, 0, m.Current().Selected)

	m.Handle(nav.Help, 3)
	o, ok := m.Overlay()
	require.True(t, ok)
	assert.Equal(t, nav.HelpOverlay, o.Kind)
	m.PopOverlay()

	m.Handle(nav.BackToRoot, 3)
	assert.Equal(t, 0, m.Depth())
}

func TestSelection_Bucket(t *testing.T) {
	m, _ := started(t)
	assert.True(t, nav.Allowed(nav.BucketList, nav.Download))
	assert.True(t, nav.Allowed(nav.BucketList, nav.DownloadAs))

	m.Move(1)
	sel, ok := m.Selection()
	require.True(t, ok)
	assert.Equal(t, nav.Selection{Bucket: "b", IsPrefix: true}, sel)

	m.ApplyFilter("zzz")
	_, ok = m.Selection()
	assert.False(t, ok)
}

func TestOpenLocation(t *testing.T) {
	m := nav.NewMachine(cache.New(), "/")
	req := m.OpenLocation("bucket", "logs/2024/")
	require.Equal(t, nav.LoadListing, req.Kind)
	m.CompleteListing(nav.ListingResult{Request: req, Entries: []dto.ObjectEntry{file("logs/2024/", "a", 1)}})

	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, "bucket / logs / 2024", m.Breadcrumb())
}
