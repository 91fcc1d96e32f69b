// Package nav is the navigation state machine of s3tui: a stack of frames
// (the breadcrumb), their filter, sort and selection, the modal overlays and
// the requests issued to load the data of each view.
//
// The machine is pure state: it never calls the gateway. Operations that need
// data return a Request which the caller executes off the UI loop, then hands
// the result back with the matching Complete method.
package nav

import (
	"github.com/sgaunet/s3tui/pkg/cache"
	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/preview"
)

// ViewKind identifies the kind of a frame.
type ViewKind int

const (
	BucketList ViewKind = iota
	ObjectList
	ObjectDetail
	ObjectVersions
	ObjectPreview
)

func (k ViewKind) String() string {
	switch k {
	case BucketList:
		return "buckets"
	case ObjectList:
		return "objects"
	case ObjectDetail:
		return "detail"
	case ObjectVersions:
		return "versions"
	case ObjectPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// View holds the data specific to one kind of frame. The set of views is
// closed: BucketListView, ObjectListView, ObjectDetailView,
// ObjectVersionsView and ObjectPreviewView.
type View interface {
	Kind() ViewKind
	isView()
}

// BucketListView is the root view.
type BucketListView struct {
	Buckets []dto.BucketEntry
	Loading bool
	Err     error
	token   uint64
}

// ObjectListView is the listing of one prefix.
type ObjectListView struct {
	Listing cache.Listing
}

// ObjectDetailView shows the metadata of one object. Entry is known when the
// frame is pushed, Detail once the HEAD request completes.
type ObjectDetailView struct {
	Entry   dto.ObjectEntry
	Detail  *dto.ObjectDetail
	Loading bool
	Err     error
	token   uint64
}

// ObjectVersionsView lists the versions of one object.
type ObjectVersionsView struct {
	Key      string
	Versions []dto.VersionEntry
	Loading  bool
	Err      error
	token    uint64
}

// ObjectPreviewView shows the content of one object version.
type ObjectPreviewView struct {
	Key     string
	Version string
	Size    int64
	Content preview.Content
	// Data is the raw content, kept to re-decode with another encoding.
	Data        []byte
	Loading     bool
	Wrap        bool
	LineNumbers bool
	token       uint64
}

func (*BucketListView) Kind() ViewKind     { return BucketList }
func (*ObjectListView) Kind() ViewKind     { return ObjectList }
func (*ObjectDetailView) Kind() ViewKind   { return ObjectDetail }
func (*ObjectVersionsView) Kind() ViewKind { return ObjectVersions }
func (*ObjectPreviewView) Kind() ViewKind  { return ObjectPreview }

func (*BucketListView) isView()     {}
func (*ObjectListView) isView()     {}
func (*ObjectDetailView) isView()   {}
func (*ObjectVersionsView) isView() {}
func (*ObjectPreviewView) isView()  {}
