package nav

import (
	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/preview"
)

// RequestKind identifies the data a Request asks for.
type RequestKind int

const (
	NoRequest RequestKind = iota
	LoadBuckets
	LoadListing
	LoadDetail
	LoadVersions
	LoadPreview
	RedecodePreview
)

// Request asks the caller to fetch data for a view. The result is handed
// back with the Complete method matching Kind, carrying the same Token.
type Request struct {
	Kind     RequestKind
	Token    uint64
	Bucket   string
	Prefix   string
	Key      string
	Version  string
	Size     int64
	Encoding string
	// Data is the content to re-decode.
	Data []byte
	// Refresh is set on listings fetched to replace a cached one.
	Refresh bool
}

// IsZero reports whether there is nothing to fetch.
func (r Request) IsZero() bool {
	return r.Kind == NoRequest
}

// ListingResult is the result of a LoadListing request.
type ListingResult struct {
	Request
	Entries []dto.ObjectEntry
	Err     error
}

// PreviewResult is the result of a LoadPreview or RedecodePreview request.
type PreviewResult struct {
	Request
	Content preview.Content
	Data    []byte
	Err     error
}
