package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sgaunet/s3tui/pkg/nav"
)

// Dialog renders an overlay in a bordered box. input is the rendered text
// input of FilterInput and SaveAsDialog, or the key help of HelpOverlay.
func (v *Views) Dialog(o *nav.Overlay, input string, width int) string {
	var b strings.Builder
	title := o.Title
	if title == "" {
		title = o.Kind.String()
	}
	b.WriteString(v.theme.Key.Render(title))
	b.WriteString("\n\n")

	switch o.Kind {
	case nav.SortMenu, nav.EncodingMenu:
		for i, item := range o.Items {
			if i > 0 {
				b.WriteString("\n")
			}
			if i == o.Cursor {
				b.WriteString(v.theme.Selected.Render("> " + item))
			} else {
				b.WriteString("  " + item)
			}
		}
	case nav.ConfirmDialog:
		b.WriteString(o.Text)
		b.WriteString("\n\n")
		b.WriteString(v.theme.Dim.Render("y: confirm  n: cancel"))
	default:
		b.WriteString(input)
	}

	return v.theme.Dialog.Width(min(max(width-4, 20), 80)).Render(b.String())
}

// Place centers a dialog over a screen of width x height cells.
func Place(width, height int, dialog string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}
