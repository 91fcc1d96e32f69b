package views

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/nav"
)

const etagWidth = 40

// Links are the identifiers of an object shown under its metadata.
type Links struct {
	URI string
	ARN string
	URL string
}

// Detail renders the metadata of an object detail frame.
func (v *Views) Detail(view *nav.ObjectDetailView, links Links, width int) string {
	e := view.Entry
	var b strings.Builder
	b.WriteString(v.theme.Header.Render(dto.BaseName(e.Key)))
	b.WriteString("\n\n")

	field := func(name, value string) {
		if value == "" {
			return
		}
		label := v.theme.Key.Render(fmt.Sprintf("%-15s", name))
		b.WriteString(label + " " + v.theme.Value.Render(truncate(value, max(width-16, 8))) + "\n")
	}

	field("Key", e.Key)
	field("Type", fileTypeLabel(e.Key))
	field("Size", fmt.Sprintf("%s (%d bytes)", formatSize(e.Size), e.Size))
	if !e.LastModified.IsZero() {
		field("Last modified", formatDateTime(e.LastModified)+"  "+formatRelativeTime(e.LastModified, v.now()))
	}

	switch {
	case view.Loading:
		b.WriteString("\n" + v.theme.Dim.Render("Loading metadata..."))
		return b.String()
	case view.Err != nil:
		b.WriteString("\n" + v.ErrorPage(view.Err))
		return b.String()
	case view.Detail == nil:
		return b.String()
	}

	d := view.Detail
	etag := d.ETag
	if etag == "" {
		etag = e.ETag
	}
	field("ETag", truncateETag(etag, etagWidth))
	field("Content type", d.ContentType)
	field("Storage class", storageClass(d.StorageClass, e.StorageClass))
	field("Version", d.VersionID)

	field("S3 URI", links.URI)
	field("ARN", links.ARN)
	field("URL", links.URL)

	if len(d.Metadata) > 0 {
		b.WriteString("\n" + v.theme.Column.Render("Metadata") + "\n")
		for _, k := range slices.Sorted(maps.Keys(d.Metadata)) {
			field(k, d.Metadata[k])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func storageClass(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return "STANDARD"
}
