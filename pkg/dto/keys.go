package dto

import "strings"

// Delimiter separates key segments in the virtual hierarchy.
const Delimiter = "/"

// IsDirKey reports whether the key names a virtual directory (a common
// prefix or a directory marker object).
func IsDirKey(key string) bool {
	return strings.HasSuffix(key, Delimiter)
}

// Segments splits a key into its non-empty path segments.
func Segments(key string) []string {
	parts := strings.Split(key, Delimiter)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// ParentPrefix returns the prefix under which key is listed.
//
//	ParentPrefix("a/b/c.txt") == "a/b/"
//	ParentPrefix("a/b/")      == "a/"
//	ParentPrefix("c.txt")     == ""
func ParentPrefix(key string) string {
	trimmed := strings.TrimSuffix(key, Delimiter)
	idx := strings.LastIndex(trimmed, Delimiter)
	if idx == -1 {
		return ""
	}
	return trimmed[:idx+1]
}

// SegmentOf returns the display segment of key relative to prefix, without
// the trailing delimiter of directories.
func SegmentOf(key, prefix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(key, prefix), Delimiter)
}

// BaseName returns the last segment of key.
func BaseName(key string) string {
	segments := Segments(key)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// JoinPrefix appends a directory segment to prefix.
func JoinPrefix(prefix, segment string) string {
	return prefix + strings.TrimSuffix(segment, Delimiter) + Delimiter
}

// NewPrefixEntry builds the listing entry of a common prefix listed under parent.
func NewPrefixEntry(prefix, parent string) ObjectEntry {
	return ObjectEntry{
		Segment:  SegmentOf(prefix, parent),
		IsPrefix: true,
		Key:      prefix,
	}
}

// Breadcrumb renders the location of a view: the bucket followed by the
// segments of prefix and, for object views, the object name.
func Breadcrumb(bucket, prefix, key string) string {
	if bucket == "" {
		return ""
	}
	parts := append([]string{bucket}, Segments(prefix)...)
	if key != "" {
		parts = append(parts, BaseName(key))
	}
	return strings.Join(parts, " / ")
}
