package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"future", now.Add(time.Hour), "in the future"},
		{"just now", now.Add(-10 * time.Second), "just now"},
		{"one minute", now.Add(-time.Minute), "1 minute ago"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
		{"yesterday", now.Add(-30 * time.Hour), "yesterday"},
		{"days", now.Add(-72 * time.Hour), "3 days ago"},
		{"weeks", now.Add(-15 * 24 * time.Hour), "2 weeks ago"},
		{"months", now.Add(-65 * 24 * time.Hour), "2 months ago"},
		{"years", now.Add(-800 * 24 * time.Hour), "2 years ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatRelativeTime(tt.t, now))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "…", truncate("hello", 1))
	assert.Equal(t, "", truncate("hello", 0))
	assert.Equal(t, "日本…", truncate("日本語です", 3))
}

func TestTruncateETag(t *testing.T) {
	assert.Equal(t, "abc", truncateETag(`"abc"`, 8))
	assert.Equal(t, "abcd...", truncateETag(`"abcdefgh"`, 4))
}

func TestFileTypeLabel(t *testing.T) {
	assert.Equal(t, "image", fileTypeLabel("a/b.PNG"))
	assert.Equal(t, "table", fileTypeLabel("x.csv"))
	assert.Equal(t, "archive", fileTypeLabel("x.tar"))
	assert.Equal(t, "text", fileTypeLabel("x.log"))
	assert.Equal(t, "go", fileTypeLabel("main.go"))
	assert.Equal(t, "file", fileTypeLabel("Makefile"))
}

func TestLayout(t *testing.T) {
	line := layout(40, "name", "1 KiB", "2024-06-01 12:00:00")
	assert.Len(t, []rune(line), 40)
	assert.Equal(t, "name", line[:4])
}
