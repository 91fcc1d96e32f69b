package views

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	hoursPerDay   = 24
	hoursPerWeek  = hoursPerDay * 7
	hoursPerMonth = hoursPerDay * 30
	hoursPerYear  = hoursPerDay * 365
)

// formatRelativeTime converts a time.Time to a human-readable relative time string.
func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	duration := now.Sub(t)

	switch {
	case duration < 0:
		return "in the future"
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		return plural(int(duration.Minutes()), "minute")
	case duration < hoursPerDay*time.Hour:
		return plural(int(duration.Hours()), "hour")
	case duration < hoursPerWeek*time.Hour:
		days := int(duration.Hours() / hoursPerDay)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	case duration < hoursPerMonth*time.Hour:
		return plural(int(duration.Hours()/hoursPerWeek), "week")
	case duration < hoursPerYear*time.Hour:
		return plural(int(duration.Hours()/hoursPerMonth), "month")
	default:
		return plural(int(duration.Hours()/hoursPerYear), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// formatDateTime formats a time.Time to a readable date and time string.
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// formatSize renders a byte count with binary units.
func formatSize(n int64) string {
	if n < 0 {
		return ""
	}
	return humanize.IBytes(uint64(n))
}

// truncateETag truncates an ETag to the first N characters for display.
func truncateETag(etag string, length int) string {
	etag = strings.Trim(etag, "\"")
	if len(etag) <= length {
		return etag
	}
	return etag[:length] + "..."
}

// fileTypeLabel returns a short label for the type of a file.
func fileTypeLabel(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return "file"
	}

	switch {
	case slices.Contains([]string{"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "ico"}, ext):
		return "image"
	case slices.Contains([]string{"xls", "xlsx", "ods", "csv", "parquet"}, ext):
		return "table"
	case slices.Contains([]string{"zip", "rar", "7z", "tar", "gz", "bz2", "zst"}, ext):
		return "archive"
	case slices.Contains([]string{"txt", "md", "doc", "docx", "pdf", "rtf", "log"}, ext):
		return "text"
	default:
		return ext
	}
}

// truncate cuts s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
