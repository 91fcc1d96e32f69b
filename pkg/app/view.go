package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sgaunet/s3tui/pkg/nav"
	"github.com/sgaunet/s3tui/pkg/s3svc"
	"github.com/sgaunet/s3tui/pkg/views"
)

// View implements the bubbletea.Model interface
func (m *Model) View() string {
	if o, ok := m.machine.Overlay(); ok {
		return views.Place(m.width, m.height, m.dialog(o))
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(m.body()))
	b.WriteString("\n")
	b.WriteString(m.infoLine())
	b.WriteString("\n")
	if banner, ok := m.machine.Banner(); ok {
		b.WriteString(m.views.Banner(banner, m.width))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys.For(m.machine.Current().Kind())))
	return b.String()
}

func (m *Model) header() string {
	spin := ""
	if m.loading() {
		spin = m.spinner.View()
	}
	left := m.views.Header(m.machine.Breadcrumb(), spin, m.width)
	if m.tracker == nil {
		return left
	}
	right := m.views.Health(m.tracker.GetHealthInfo())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) loading() bool {
	if m.machine.Loading() {
		return true
	}
	switch v := m.machine.Current().View.(type) {
	case *nav.BucketListView:
		return v.Loading
	case *nav.ObjectDetailView:
		return v.Loading
	case *nav.ObjectVersionsView:
		return v.Loading
	case *nav.ObjectPreviewView:
		return v.Loading
	}
	return false
}

func (m *Model) body() string {
	f := m.machine.Current()
	switch v := f.View.(type) {
	case *nav.ObjectDetailView:
		return m.views.Detail(v, views.Links{
			URI: s3svc.ObjectURI(f.Bucket, v.Entry.Key),
			ARN: s3svc.ObjectARN(f.Bucket, v.Entry.Key),
			URL: s3svc.ObjectURL(m.cfg.S3, f.Bucket, v.Entry.Key),
		}, m.width)
	case *nav.ObjectPreviewView:
		return m.views.PreviewTitle(v) + "\n" + m.viewport.View()
	default:
		return m.views.List(f, m.width, m.bodyHeight())
	}
}

// infoLine shows the running download, or the filter and sort of the
// current frame.
func (m *Model) infoLine() string {
	if m.job != nil {
		p := m.job.Snapshot()
		bar := ""
		if p.Total > 0 {
			bar = m.progress.ViewAs(float64(p.Completed) / float64(p.Total))
		}
		return m.views.Download(p, bar)
	}
	f := m.machine.Current()
	parts := make([]string, 0, 2)
	for _, s := range []string{m.views.FilterLine(f), m.views.SortLine(f)} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "  ")
}

func (m *Model) dialog(o *nav.Overlay) string {
	input := ""
	switch o.Kind {
	case nav.FilterInput, nav.SaveAsDialog:
		input = m.input.View()
	case nav.HelpOverlay:
		input = m.help.FullHelpView(m.keys.For(m.machine.Current().Kind()).FullHelp())
	}
	return m.views.Dialog(o, input, m.width)
}
