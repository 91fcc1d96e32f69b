package views

import (
	"fmt"
	"strings"

	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/nav"
)

const (
	sizeWidth = 10
	timeWidth = 19
)

// List renders the rows of a list frame in height lines of width cells.
func (v *Views) List(f *nav.Frame, width, height int) string {
	w := f.Window(height - 1)
	var b strings.Builder

	switch view := f.View.(type) {
	case *nav.BucketListView:
		if view.Loading && len(view.Buckets) == 0 {
			return v.theme.Dim.Render("Loading buckets...")
		}
		b.WriteString(v.columns(width, "NAME", "CREATED"))
		for i, bucket := range f.Buckets()[w.Start:w.End] {
			b.WriteString("\n")
			b.WriteString(v.row(width, w.Start+i == f.Selected, false, bucket.Name, "", formatDateTime(bucket.CreationDate)))
		}
		if f.Len() == 0 && !view.Loading {
			b.WriteString("\n" + v.empty(f.Filter, "no bucket"))
		}
	case *nav.ObjectListView:
		b.WriteString(v.columns(width, "NAME", "SIZE", "LAST MODIFIED"))
		for i, e := range f.Entries()[w.Start:w.End] {
			b.WriteString("\n")
			name, size, modified := e.Segment, "", ""
			if e.IsPrefix {
				name += dto.Delimiter
			}
			if e.HasSize() {
				size = formatSize(e.Size)
			}
			if e.HasTimestamp() {
				modified = formatDateTime(e.LastModified)
			}
			b.WriteString(v.row(width, w.Start+i == f.Selected, e.IsPrefix, name, size, modified))
		}
		if f.Len() == 0 {
			b.WriteString("\n" + v.empty(f.Filter, "empty"))
		}
	case *nav.ObjectVersionsView:
		return v.versions(f, view, w, width)
	}
	return b.String()
}

func (v *Views) versions(f *nav.Frame, view *nav.ObjectVersionsView, w dto.Window, width int) string {
	if view.Loading {
		return v.theme.Dim.Render("Loading versions...")
	}
	if view.Err != nil {
		return v.ErrorPage(view.Err)
	}
	var b strings.Builder
	b.WriteString(v.columns(width, "VERSION", "SIZE", "LAST MODIFIED"))
	for i, ver := range f.Versions()[w.Start:w.End] {
		id := ver.VersionID
		if id == "" || id == "null" {
			id = "null"
		}
		switch {
		case ver.IsDeleteMarker:
			id += " (delete marker)"
		case ver.IsLatest:
			id += " (latest)"
		}
		size := formatSize(ver.Size)
		if ver.IsDeleteMarker {
			size = ""
		}
		b.WriteString("\n")
		b.WriteString(v.row(width, w.Start+i == f.Selected, false, id, size, formatDateTime(ver.LastModified)))
	}
	if f.Len() == 0 {
		b.WriteString("\n" + v.theme.Dim.Render("no version"))
	}
	return b.String()
}

func (v *Views) empty(filter, what string) string {
	if filter != "" {
		return v.theme.Dim.Render(fmt.Sprintf("nothing matches %q", filter))
	}
	return v.theme.Dim.Render(what)
}

func (v *Views) columns(width int, name string, extra ...string) string {
	return v.theme.Column.Render(layout(width, name, extra...))
}

func (v *Views) row(width int, selected, dir bool, name, size, modified string) string {
	line := layout(width, name, size, modified)
	switch {
	case selected:
		return v.theme.Selected.Render(line)
	case dir:
		return v.theme.Dir.Render(line)
	default:
		return v.theme.File.Render(line)
	}
}

// layout lays out a name column taking the remaining width, followed by
// right-aligned size and time columns.
func layout(width int, name string, extra ...string) string {
	fixed := 0
	widths := make([]int, len(extra))
	for i := range extra {
		switch {
		case len(extra) == 1:
			widths[i] = timeWidth
		case i == 0:
			widths[i] = sizeWidth
		default:
			widths[i] = timeWidth
		}
		fixed += widths[i] + 1
	}
	nameWidth := max(width-fixed, 8)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-*s", nameWidth, truncate(name, nameWidth)))
	for i, e := range extra {
		b.WriteString(" ")
		b.WriteString(fmt.Sprintf("%*s", widths[i], truncate(e, widths[i])))
	}
	return b.String()
}
