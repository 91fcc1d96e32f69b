package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/browser"

	"github.com/sgaunet/s3tui/pkg/download"
	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/nav"
)

// Messages carrying the results of the commands back to Update.
type (
	bucketsMsg struct {
		token   uint64
		buckets []dto.BucketEntry
		err     error
	}
	listingMsg nav.ListingResult
	detailMsg  struct {
		token  uint64
		detail dto.ObjectDetail
		err    error
	}
	versionsMsg struct {
		token    uint64
		versions []dto.VersionEntry
		err      error
	}
	previewMsg nav.PreviewResult
	consoleMsg struct {
		url string
		err error
	}
	downloadTick struct {
		id string
	}
	downloadDone struct {
		job     *download.Job
		summary download.Summary
	}
	healthTick  struct{}
	autoRefresh struct{}
)

const (
	downloadPollInterval = 200 * time.Millisecond
	healthPollInterval   = time.Second
)

// execute returns the command fetching the data of req.
func (m *Model) execute(req nav.Request) tea.Cmd {
	if req.IsZero() {
		return nil
	}
	m.log.Debug("Executing request", slog.Int("kind", int(req.Kind)), slog.Uint64("token", req.Token),
		slog.String("bucket", req.Bucket), slog.String("prefix", req.Prefix), slog.String("key", req.Key))

	ctx := m.ctx
	switch req.Kind {
	case nav.LoadBuckets:
		return func() tea.Msg {
			buckets, err := m.gw.ListBuckets(ctx)
			return bucketsMsg{token: req.Token, buckets: buckets, err: err}
		}
	case nav.LoadListing:
		return func() tea.Msg {
			entries, err := m.list(ctx, req.Bucket, req.Prefix)
			return listingMsg{Request: req, Entries: entries, Err: err}
		}
	case nav.LoadDetail:
		return func() tea.Msg {
			detail, err := m.gw.HeadObject(ctx, req.Bucket, req.Key, req.Version)
			return detailMsg{token: req.Token, detail: detail, err: err}
		}
	case nav.LoadVersions:
		return func() tea.Msg {
			versions, err := m.gw.ListVersions(ctx, req.Bucket, req.Key)
			return versionsMsg{token: req.Token, versions: versions, err: err}
		}
	case nav.LoadPreview:
		if m.pipeline.TooLarge(req.Size) {
			return func() tea.Msg {
				return previewMsg{Request: req, Content: m.pipeline.Oversized(req.Size)}
			}
		}
		return func() tea.Msg {
			data, err := m.fetch(ctx, req)
			if err != nil {
				return previewMsg{Request: req, Err: err}
			}
			if m.pipeline.TooLarge(int64(len(data))) {
				return previewMsg{Request: req, Content: m.pipeline.Oversized(int64(len(data)))}
			}
			return previewMsg{Request: req, Content: m.pipeline.Build(req.Key, data), Data: data}
		}
	case nav.RedecodePreview:
		return func() tea.Msg {
			return previewMsg{Request: req, Content: m.pipeline.Redecode(req.Key, req.Data, req.Encoding)}
		}
	default:
		return nil
	}
}

// list reads every page of a delimited listing.
func (m *Model) list(ctx context.Context, bucket, prefix string) ([]dto.ObjectEntry, error) {
	var entries []dto.ObjectEntry
	for page, err := range m.gw.ListObjects(ctx, bucket, prefix, m.machine.Delimiter()) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, page.Entries()...)
	}
	return entries, nil
}

// fetch reads the content of an object for a preview. Reading stops one byte
// past the size limit so that an object grown since its listing is caught.
func (m *Model) fetch(ctx context.Context, req nav.Request) ([]byte, error) {
	body, err := m.gw.GetObject(ctx, req.Bucket, req.Key, req.Version)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var r io.Reader = body
	if limit := m.cfg.Preview.MaxSize; limit > 0 {
		r = io.LimitReader(body, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.Key, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// startDownload runs job and polls its progress until it ends.
func (m *Model) startDownload(job *download.Job) tea.Cmd {
	m.job = job
	ctx := m.ctx
	run := func() tea.Msg {
		return downloadDone{job: job, summary: m.orchestrator.Run(ctx, job)}
	}
	return tea.Batch(run, pollDownload(job.ID.String()))
}

func pollDownload(id string) tea.Cmd {
	return tea.Tick(downloadPollInterval, func(time.Time) tea.Msg {
		return downloadTick{id: id}
	})
}

func pollHealth() tea.Cmd {
	return tea.Tick(healthPollInterval, func(time.Time) tea.Msg {
		return healthTick{}
	})
}

// openConsole opens url in the default browser.
func openConsole(url string) tea.Cmd {
	return func() tea.Msg {
		return consoleMsg{url: url, err: browser.OpenURL(url)}
	}
}
