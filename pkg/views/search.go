package views

import (
	"fmt"

	"github.com/sgaunet/s3tui/pkg/nav"
)

// FilterLine renders the active filter of a frame under its list, or an
// empty string when no filter is set.
func (v *Views) FilterLine(f *nav.Frame) string {
	if f.Filter == "" {
		return ""
	}
	return v.theme.Info.Render(fmt.Sprintf("filter: %s", f.Filter)) +
		v.theme.Dim.Render(fmt.Sprintf("  (%d match%s)", f.Len(), pluralSuffix(f.Len(), "es")))
}

// SortLine renders the sort key of a frame when it is not the default.
func (v *Views) SortLine(f *nav.Frame) string {
	if f.Sort.Field == nav.SortDefault {
		return ""
	}
	return v.theme.Dim.Render("sorted by " + f.Sort.String())
}

func pluralSuffix(n int, suffix string) string {
	if n == 1 {
		return ""
	}
	return suffix
}
