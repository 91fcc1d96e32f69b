package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/sgaunet/s3tui/pkg/download"
	"github.com/sgaunet/s3tui/pkg/health"
	"github.com/sgaunet/s3tui/pkg/nav"
)

// Header renders the title line: application name, breadcrumb and the
// loading indicator.
func (v *Views) Header(breadcrumb, spinner string, width int) string {
	title := v.theme.Header.Render("s3tui") + " " + v.theme.Crumb.Render(truncate(breadcrumb, max(width-8, 8)))
	if spinner != "" {
		title += " " + spinner
	}
	return title
}

// Banner renders a notification.
func (v *Views) Banner(b nav.Banner, width int) string {
	msg := truncate(b.Message, width)
	switch b.Level {
	case nav.Success:
		return v.theme.Success.Render(msg)
	case nav.Warn:
		return v.theme.Warn.Render(msg)
	case nav.Error:
		return v.theme.Error.Render(msg)
	default:
		return v.theme.Info.Render(msg)
	}
}

// Health renders the connection badge.
func (v *Views) Health(info health.Info) string {
	switch info.Status {
	case health.StatusHealthy:
		return v.theme.Success.Render("● connected")
	case health.StatusUnhealthy:
		badge := "● disconnected"
		if info.ConsecutiveFailures > 1 {
			badge += fmt.Sprintf(" (%d failures)", info.ConsecutiveFailures)
		}
		if !info.LastCheck.IsZero() {
			badge += ", checked " + formatRelativeTime(info.LastCheck, v.now())
		}
		return v.theme.Error.Render(badge)
	default:
		return v.theme.Dim.Render("○ connecting")
	}
}

// Download renders the progress line of a running job. bar is the rendered
// progress bar.
func (v *Views) Download(p download.Progress, bar string) string {
	var b strings.Builder
	switch p.State {
	case download.Enumerating:
		b.WriteString(v.theme.Info.Render(fmt.Sprintf("listing keys... %d found", p.Found)))
		return b.String()
	case download.Running:
		b.WriteString(v.theme.Info.Render("downloading "))
	default:
		b.WriteString(v.theme.Info.Render(p.State.String() + " "))
	}
	if bar != "" {
		b.WriteString(bar + " ")
	}
	b.WriteString(fmt.Sprintf("%d/%d  %s", p.Completed, p.Total, formatSize(p.Bytes)))
	if n := len(p.Failed); n > 0 {
		b.WriteString(v.theme.Error.Render(fmt.Sprintf("  %d failed", n)))
	}
	return b.String()
}

// Summary renders the one-line report of a finished job.
func (v *Views) Summary(s download.Summary) (nav.BannerLevel, string) {
	elapsed := s.Elapsed.Round(time.Millisecond)
	switch s.State {
	case download.Cancelled:
		return nav.Warn, fmt.Sprintf("download cancelled: %d of %d files written", s.Succeeded(), s.Total)
	case download.PartiallyFailed:
		failed := s.Failures()
		keys := make([]string, 0, len(failed))
		for _, o := range failed {
			keys = append(keys, o.Key)
		}
		return nav.Error, fmt.Sprintf("download finished with %d failure%s: %s", len(failed),
			pluralSuffix(len(failed), "s"), strings.Join(keys, ", "))
	default:
		what := fmt.Sprintf("%d files", s.Total)
		if s.Total == 1 && len(s.Outcomes) == 1 {
			what = s.Outcomes[0].Path
		}
		return nav.Success, fmt.Sprintf("downloaded %s (%s) in %s", what, formatSize(s.Bytes()), elapsed)
	}
}
