package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgaunet/s3tui/pkg/dto"
)

func TestParentPrefix(t *testing.T) {
	testCases := []struct {
		key      string
		expected string
	}{
		{key: "a/b/c.txt", expected: "a/b/"},
		{key: "a/b/", expected: "a/"},
		{key: "a/", expected: ""},
		{key: "c.txt", expected: ""},
		{key: "", expected: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.expected, dto.ParentPrefix(tc.key))
		})
	}
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c.txt"}, dto.Segments("a/b/c.txt"))
	assert.Equal(t, []string{"a", "b"}, dto.Segments("a//b/"))
	assert.Empty(t, dto.Segments(""))
}

func TestSegmentOf(t *testing.T) {
	assert.Equal(t, "c.txt", dto.SegmentOf("a/b/c.txt", "a/b/"))
	assert.Equal(t, "b", dto.SegmentOf("a/b/", "a/"))
	assert.Equal(t, "a", dto.SegmentOf("a/", ""))
}

func TestIsDirKey(t *testing.T) {
	assert.True(t, dto.IsDirKey("logs/"))
	assert.False(t, dto.IsDirKey("logs/app.log"))
}

func TestNewPrefixEntry(t *testing.T) {
	e := dto.NewPrefixEntry("photos/2024/", "photos/")
	assert.Equal(t, "2024", e.Segment)
	assert.True(t, e.IsPrefix)
	assert.Equal(t, "photos/2024/", e.Key)
	assert.False(t, e.HasSize())
	assert.False(t, e.HasTimestamp())
}

func TestJoinPrefix(t *testing.T) {
	assert.Equal(t, "a/b/", dto.JoinPrefix("a/", "b"))
	assert.Equal(t, "a/b/", dto.JoinPrefix("a/", "b/"))
	assert.Equal(t, "b/", dto.JoinPrefix("", "b"))
}

func TestBreadcrumb(t *testing.T) {
	assert.Equal(t, "", dto.Breadcrumb("", "", ""))
	assert.Equal(t, "data", dto.Breadcrumb("data", "", ""))
	assert.Equal(t, "data / a / b", dto.Breadcrumb("data", "a/b/", ""))
	assert.Equal(t, "data / a / c.txt", dto.Breadcrumb("data", "a/", "a/c.txt"))
}

func TestListingPageEntries(t *testing.T) {
	page := dto.ListingPage{
		Objects:        []dto.ObjectEntry{{Segment: "f", Key: "f"}},
		CommonPrefixes: []dto.ObjectEntry{{Segment: "d", Key: "d/", IsPrefix: true}},
	}
	entries := page.Entries()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "d", entries[0].Segment)
		assert.Equal(t, "f", entries[1].Segment)
	}
}
