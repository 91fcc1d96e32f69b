// Package dto provides data transfer objects for S3 operations
package dto

import "time"

// BucketEntry represents an S3 bucket.
type BucketEntry struct {
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creationDate"`
}

// DisplayName returns the bucket name.
func (b BucketEntry) DisplayName() string { return b.Name }

// IsDir returns false: buckets are never sorted as directories.
func (b BucketEntry) IsDir() bool { return false }

// SizeBytes returns 0, buckets carry no size.
func (b BucketEntry) SizeBytes() int64 { return 0 }

// Modified returns the creation date of the bucket.
func (b BucketEntry) Modified() time.Time { return b.CreationDate }

// ObjectEntry is one row of an object listing: either a common prefix
// (a virtual directory) or an object.
// Prefix entries carry no size and no timestamp.
type ObjectEntry struct {
	Segment      string    `json:"segment"`
	IsPrefix     bool      `json:"isPrefix"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastmodified"`
	ETag         string    `json:"etag"`
	StorageClass string    `json:"storageclass"`
}

// DisplayName returns the segment shown in listings.
func (o ObjectEntry) DisplayName() string { return o.Segment }

// IsDir reports whether the entry is a common prefix.
func (o ObjectEntry) IsDir() bool { return o.IsPrefix }

// SizeBytes returns the object size, 0 for prefixes.
func (o ObjectEntry) SizeBytes() int64 { return o.Size }

// Modified returns the last modification time, zero for prefixes.
func (o ObjectEntry) Modified() time.Time { return o.LastModified }

// HasSize reports whether Size is meaningful.
func (o ObjectEntry) HasSize() bool { return !o.IsPrefix }

// HasTimestamp reports whether LastModified is meaningful.
func (o ObjectEntry) HasTimestamp() bool { return !o.IsPrefix && !o.LastModified.IsZero() }

// ObjectDetail is the metadata of a single object, as returned by a HEAD request.
type ObjectDetail struct {
	Bucket       string            `json:"bucket"`
	Key          string            `json:"key"`
	Name         string            `json:"name"`
	Size         int64             `json:"size"`
	LastModified time.Time         `json:"lastmodified"`
	ETag         string            `json:"etag"`
	ContentType  string            `json:"contentType"`
	StorageClass string            `json:"storageclass"`
	VersionID    string            `json:"versionId"`
	Metadata     map[string]string `json:"metadata"`
}

// VersionEntry is one version of an object.
type VersionEntry struct {
	VersionID      string    `json:"versionId"`
	Size           int64     `json:"size"`
	LastModified   time.Time `json:"lastmodified"`
	ETag           string    `json:"etag"`
	IsLatest       bool      `json:"isLatest"`
	IsDeleteMarker bool      `json:"isDeleteMarker"`
}

// ListingPage is one page of a delimited listing.
type ListingPage struct {
	Objects           []ObjectEntry
	CommonPrefixes    []ObjectEntry
	ContinuationToken string
}

// Entries returns the common prefixes followed by the objects of the page.
func (p ListingPage) Entries() []ObjectEntry {
	entries := make([]ObjectEntry, 0, len(p.CommonPrefixes)+len(p.Objects))
	entries = append(entries, p.CommonPrefixes...)
	entries = append(entries, p.Objects...)
	return entries
}
