package nav

import (
	"github.com/sgaunet/s3tui/pkg/dto"
)

// Frame is one view instance on the stack. Popping a frame restores the
// previous one exactly as it was left.
type Frame struct {
	Bucket string
	Prefix string
	// Selected indexes the visible rows, -1 when there is none.
	Selected int
	Filter   string
	Sort     SortKey
	View     View

	// Offset is the first row displayed, kept so the window does not jump
	// when coming back to the frame.
	Offset int

	visible []int
}

// Kind returns the kind of the frame view.
func (f *Frame) Kind() ViewKind {
	return f.View.Kind()
}

// Len returns the number of visible rows.
func (f *Frame) Len() int {
	return len(f.visible)
}

// Buckets returns the visible buckets of a bucket list frame.
func (f *Frame) Buckets() []dto.BucketEntry {
	v, ok := f.View.(*BucketListView)
	if !ok {
		return nil
	}
	return pick(v.Buckets, f.visible)
}

// Entries returns the visible entries of an object list frame.
func (f *Frame) Entries() []dto.ObjectEntry {
	v, ok := f.View.(*ObjectListView)
	if !ok {
		return nil
	}
	return pick(v.Listing.Entries, f.visible)
}

// Versions returns the versions of a versions frame.
func (f *Frame) Versions() []dto.VersionEntry {
	v, ok := f.View.(*ObjectVersionsView)
	if !ok {
		return nil
	}
	return pick(v.Versions, f.visible)
}

// SelectedEntry returns the selected entry of an object list frame.
func (f *Frame) SelectedEntry() (dto.ObjectEntry, bool) {
	return selected(f.Entries(), f.Selected)
}

// SelectedBucket returns the selected bucket of a bucket list frame.
func (f *Frame) SelectedBucket() (dto.BucketEntry, bool) {
	return selected(f.Buckets(), f.Selected)
}

// SelectedVersion returns the selected version of a versions frame.
func (f *Frame) SelectedVersion() (dto.VersionEntry, bool) {
	return selected(f.Versions(), f.Selected)
}

// Window returns the rows of the frame displayed in height lines and records
// the new offset.
func (f *Frame) Window(height int) dto.Window {
	w := dto.NewWindow(f.Len(), height, f.Selected, f.Offset)
	f.Offset = w.Start
	return w
}

// arrange recomputes the visible rows and clamps the selection.
func (f *Frame) arrange() {
	switch v := f.View.(type) {
	case *BucketListView:
		f.visible = Arrange(v.Buckets, f.Filter, f.Sort)
	case *ObjectListView:
		f.visible = Arrange(v.Listing.Entries, f.Filter, f.Sort)
	case *ObjectVersionsView:
		f.visible = make([]int, len(v.Versions))
		for i := range f.visible {
			f.visible[i] = i
		}
	default:
		f.visible = nil
	}
	f.clamp()
}

func (f *Frame) clamp() {
	switch n := len(f.visible); {
	case n == 0:
		f.Selected = -1
	case f.Selected < 0:
		f.Selected = 0
	case f.Selected >= n:
		f.Selected = n - 1
	}
}

func (f *Frame) move(delta int) {
	if len(f.visible) == 0 {
		return
	}
	f.Selected = min(max(f.Selected+delta, 0), len(f.visible)-1)
}

func pick[T any](items []T, indices []int) []T {
	out := make([]T, 0, len(indices))
	for _, i := range indices {
		out = append(out, items[i])
	}
	return out
}

func selected[T any](items []T, idx int) (T, bool) {
	var zero T
	if idx < 0 || idx >= len(items) {
		return zero, false
	}
	return items[idx], true
}
