package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sgaunet/s3tui/pkg/nav"
	"github.com/sgaunet/s3tui/pkg/preview"
)

// Pixel size of a terminal cell assumed when scaling sixel images.
const (
	cellWidth  = 10
	cellHeight = 20
)

// PreviewTitle renders the header line of a preview frame.
func (v *Views) PreviewTitle(view *nav.ObjectPreviewView) string {
	parts := []string{v.theme.Header.Render(view.Key)}
	if view.Version != "" {
		parts = append(parts, v.theme.Dim.Render("version "+view.Version))
	}
	if view.Size > 0 {
		parts = append(parts, v.theme.Dim.Render(formatSize(view.Size)))
	}
	switch c := view.Content.(type) {
	case preview.Text:
		parts = append(parts, v.theme.Info.Render(c.EncodingUsed))
	case preview.Image:
		parts = append(parts, v.theme.Info.Render(c.Format+" via "+c.Protocol))
	}
	return strings.Join(parts, "  ")
}

// Preview renders the body of a preview frame, to be shown in a scrolling
// viewport of width x height cells.
func (v *Views) Preview(view *nav.ObjectPreviewView, width, height int) string {
	if view.Loading || view.Content == nil {
		return v.theme.Dim.Render("Loading preview...")
	}

	switch c := view.Content.(type) {
	case preview.Text:
		return v.text(c, view.LineNumbers, view.Wrap, width)
	case preview.Image:
		out, err := preview.EncodeImage(c.Pixels, c.Protocol, width, height, cellWidth, cellHeight)
		if err != nil {
			return v.ErrorPage(err)
		}
		return out
	case preview.Unsupported:
		return v.theme.Warn.Render(c.Reason)
	case preview.Failed:
		msg := "failed to preview: " + c.Err.Error()
		if errors.Is(c.Err, preview.ErrDecodeFailure) && view.Data != nil {
			msg += "\n" + v.theme.Dim.Render("pick another encoding to decode it again")
		}
		return v.theme.Error.Render(msg)
	default:
		return ""
	}
}

func (v *Views) text(t preview.Text, numbers, wrap bool, width int) string {
	plain := t.Lines()
	gutter := 0
	if numbers {
		gutter = len(fmt.Sprint(len(plain))) + 1
	}
	body := lipgloss.NewStyle()
	if wrap {
		body = body.Width(max(width-gutter, 1))
	} else {
		body = body.MaxWidth(max(width-gutter, 1))
	}

	var b strings.Builder
	for i, line := range plain {
		if i > 0 {
			b.WriteString("\n")
		}
		rendered := line
		if i < len(t.Highlighted) {
			rendered = v.fragments(t.Highlighted[i])
		}
		rendered = body.Render(rendered)
		if numbers {
			no := v.theme.LineNo.Render(fmt.Sprintf("%*d ", gutter-1, i+1))
			rendered = lipgloss.JoinHorizontal(lipgloss.Top, no, rendered)
		}
		b.WriteString(rendered)
	}
	return b.String()
}

func (v *Views) fragments(line preview.Line) string {
	var b strings.Builder
	for _, f := range line {
		style := lipgloss.NewStyle().Bold(f.Bold).Italic(f.Italic).Underline(f.Underline)
		if f.Fg != "" {
			style = style.Foreground(lipgloss.Color(f.Fg))
		}
		b.WriteString(style.Render(f.Text))
	}
	return b.String()
}
