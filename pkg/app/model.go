package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sgaunet/s3tui/pkg/cache"
	"github.com/sgaunet/s3tui/pkg/config"
	"github.com/sgaunet/s3tui/pkg/download"
	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/health"
	"github.com/sgaunet/s3tui/pkg/nav"
	"github.com/sgaunet/s3tui/pkg/preview"
	"github.com/sgaunet/s3tui/pkg/s3svc"
	"github.com/sgaunet/s3tui/pkg/views"
)

// Lines around the body: header, then info, banner and help under it.
const chromeLines = 4

// Model is the bubbletea model of s3tui. It owns the navigation machine and
// is the only place where it is mutated.
type Model struct {
	ctx          context.Context
	cfg          config.Config
	gw           s3svc.Gateway
	machine      *nav.Machine
	pipeline     *preview.Pipeline
	orchestrator *download.Orchestrator
	tracker      *health.Tracker
	views        *views.Views
	log          *slog.Logger

	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	viewport viewport.Model
	input    textinput.Model

	job *download.Job
	// onConfirm runs when the confirm dialog is accepted.
	onConfirm func() tea.Cmd

	// previewGen changes every time a preview result is applied, so the
	// viewport content is rendered again.
	previewGen  int
	previewSeen previewState

	width  int
	height int
}

type previewState struct {
	view    *nav.ObjectPreviewView
	gen     int
	wrap    bool
	numbers bool
	width   int
	height  int
}

// NewModel creates the model. tracker may be nil.
func NewModel(ctx context.Context, cfg config.Config, gw s3svc.Gateway, tracker *health.Tracker) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))

	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 1024

	m := &Model{
		ctx:          ctx,
		cfg:          cfg,
		gw:           gw,
		machine:      nav.NewMachine(cache.New(), cfg.S3.Delimiter),
		pipeline:     preview.New(preview.OptionsFromConfig(cfg.Preview)),
		orchestrator: download.NewOrchestrator(gw, cfg.Download, cfg.S3.Delimiter),
		tracker:      tracker,
		views:        views.NewViews(),
		log:          slog.New(slog.DiscardHandler),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      s,
		progress:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(30)),
		viewport:     viewport.New(80, 20),
		input:        in,
		width:        80,
		height:       24,
	}
	return m
}

// SetLogger sets the logger of the model and of the services it drives.
func (m *Model) SetLogger(log *slog.Logger) {
	if log == nil {
		return
	}
	m.log = log
	m.pipeline.SetLogger(log)
	m.orchestrator.SetLogger(log)
}

// Machine returns the navigation machine.
func (m *Model) Machine() *nav.Machine {
	return m.machine
}

// Init implements the bubbletea.Model interface
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.execute(m.machine.Start()), m.spinner.Tick}
	if m.cfg.S3.Bucket != "" {
		prefix := m.cfg.S3.Prefix
		if prefix != "" && !strings.HasSuffix(prefix, m.machine.Delimiter()) {
			prefix += m.machine.Delimiter()
		}
		cmds = append(cmds, m.execute(m.machine.OpenLocation(m.cfg.S3.Bucket, prefix)))
	}
	if m.tracker != nil {
		cmds = append(cmds, pollHealth())
	}
	return tea.Batch(cmds...)
}

// Update implements the bubbletea.Model interface
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width/3, 10), 40)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case bucketsMsg:
		m.machine.CompleteBuckets(msg.token, msg.buckets, msg.err)

	case listingMsg:
		m.machine.CompleteListing(nav.ListingResult(msg))

	case detailMsg:
		m.machine.CompleteDetail(msg.token, msg.detail, msg.err)

	case versionsMsg:
		m.machine.CompleteVersions(msg.token, msg.versions, msg.err)

	case previewMsg:
		m.machine.CompletePreview(nav.PreviewResult(msg))
		m.previewGen++

	case consoleMsg:
		if msg.err != nil {
			m.machine.Notify(nav.Error, fmt.Sprintf("failed to open %s: %v", msg.url, msg.err))
		} else {
			m.machine.Notify(nav.Info, "opened "+msg.url)
		}

	case downloadTick:
		if m.job != nil && m.job.ID.String() == msg.id {
			cmd = pollDownload(msg.id)
		}

	case downloadDone:
		level, text := m.views.Summary(msg.summary)
		m.machine.Notify(level, text)
		if m.job == msg.job {
			m.job = nil
		}

	case healthTick:
		cmd = pollHealth()

	case autoRefresh:
		cmd = m.autoRefresh()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
	}

	m.syncViewport()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if o, ok := m.machine.Overlay(); ok {
		return m.handleOverlay(o, msg)
	}
	if m.machine.ConsumeKey() {
		return nil
	}

	kind := m.machine.Current().Kind()
	action, ok := m.keys.Resolve(msg, kind)
	if !ok {
		return nil
	}
	if kind == nav.ObjectPreview && m.scroll(action) {
		return nil
	}

	if req, handled := m.machine.Handle(action, m.pageSize()); handled {
		m.prepareInput()
		return m.execute(req)
	}

	switch action {
	case nav.Download:
		return m.download("")
	case nav.DownloadAs:
		m.openSaveAs()
	case nav.Encoding:
		if !m.machine.OpenEncodingMenu(m.pipeline.Encodings()) {
			m.machine.Notify(nav.Warn, "this preview cannot be decoded again")
		}
	case nav.OpenConsole:
		return m.console()
	case nav.CancelDownload:
		if m.job == nil {
			m.machine.Notify(nav.Warn, "no download is running")
			return nil
		}
		m.job.Cancel()
		m.machine.Notify(nav.Info, "cancelling the download...")
	case nav.Quit:
		return m.quit()
	}
	return nil
}

func (m *Model) handleOverlay(o *nav.Overlay, msg tea.KeyMsg) tea.Cmd {
	switch o.Kind {
	case nav.HelpOverlay:
		m.machine.PopOverlay()
		return nil

	case nav.FilterInput:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.machine.CancelFilter()
			m.input.Blur()
			return nil
		case key.Matches(msg, m.keys.Confirm):
			m.machine.PopOverlay()
			m.input.Blur()
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		o.Text = m.input.Value()
		m.machine.ApplyFilter(o.Text)
		return cmd

	case nav.SaveAsDialog:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.machine.PopOverlay()
			m.input.Blur()
			return nil
		case key.Matches(msg, m.keys.Confirm):
			name := strings.TrimSpace(m.input.Value())
			m.machine.PopOverlay()
			m.input.Blur()
			if name == "" {
				m.machine.Notify(nav.Warn, "a file name is required")
				return nil
			}
			return m.download(name)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		o.Text = m.input.Value()
		return cmd

	case nav.SortMenu, nav.EncodingMenu:
		switch {
		case key.Matches(msg, m.keys.Up):
			o.MoveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			o.MoveCursor(1)
		case key.Matches(msg, m.keys.Confirm):
			if o.Kind == nav.SortMenu {
				m.machine.ConfirmSort()
				return nil
			}
			return m.execute(m.machine.ConfirmEncoding())
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
			m.machine.PopOverlay()
		}
		return nil

	case nav.ConfirmDialog:
		switch {
		case key.Matches(msg, m.keys.Yes):
			m.machine.PopOverlay()
			if m.onConfirm != nil {
				confirm := m.onConfirm
				m.onConfirm = nil
				return confirm()
			}
		case key.Matches(msg, m.keys.No):
			m.machine.PopOverlay()
			m.onConfirm = nil
		}
		return nil
	}
	return nil
}

// prepareInput loads the text of a freshly opened input overlay in the text
// input.
func (m *Model) prepareInput() {
	o, ok := m.machine.Overlay()
	if !ok || (o.Kind != nav.FilterInput && o.Kind != nav.SaveAsDialog) || m.input.Focused() {
		return
	}
	m.input.SetValue(o.Text)
	m.input.CursorEnd()
	m.input.Focus()
}

// scroll moves the preview viewport. It reports whether action was a
// movement.
func (m *Model) scroll(action nav.Action) bool {
	switch action {
	case nav.MoveDown:
		m.viewport.ScrollDown(1)
	case nav.MoveUp:
		m.viewport.ScrollUp(1)
	case nav.PageDown:
		m.viewport.PageDown()
	case nav.PageUp:
		m.viewport.PageUp()
	case nav.GoTop:
		m.viewport.GotoTop()
	case nav.GoBottom:
		m.viewport.GotoBottom()
	default:
		return false
	}
	return true
}

// download starts the download of the selection. saveAs renames a single
// object.
func (m *Model) download(saveAs string) tea.Cmd {
	if m.job != nil {
		m.machine.Notify(nav.Warn, "a download is already running")
		return nil
	}
	sel, ok := m.machine.Selection()
	if !ok {
		m.machine.Notify(nav.Warn, "nothing to download here")
		return nil
	}

	t := downloadTarget(sel)
	t.SaveAs = saveAs
	job := m.orchestrator.NewJob(t)
	m.log.Info("Download requested", slog.String("id", job.ID.String()),
		slog.String("bucket", t.Bucket), slog.String("root", t.Root()))
	return m.startDownload(job)
}

// downloadTarget is a recursive target for a prefix, the selected version of
// an object otherwise.
func downloadTarget(sel nav.Selection) download.Target {
	if sel.IsPrefix {
		return download.Target{Bucket: sel.Bucket, Prefix: sel.Key, Recursive: true}
	}
	return download.Target{Bucket: sel.Bucket, Key: sel.Key, Version: sel.Version}
}

// openSaveAs asks for the local name of the selection: a file name for an
// object, a directory name for a prefix or a bucket.
func (m *Model) openSaveAs() {
	sel, ok := m.machine.Selection()
	if !ok {
		m.machine.Notify(nav.Warn, "nothing to download here")
		return
	}
	name, title := dto.BaseName(sel.Key), "Save as"
	if sel.IsPrefix {
		title = "Save directory as"
		if name == "" {
			name = sel.Bucket
		}
	}
	m.machine.PushOverlay(nav.Overlay{Kind: nav.SaveAsDialog, Title: title, Text: name})
	m.prepareInput()
}

// console opens the management console page of the selection, or of the
// current location when nothing is selected.
func (m *Model) console() tea.Cmd {
	f := m.machine.Current()
	bucket, prefix, key := f.Bucket, f.Prefix, ""
	if b, ok := f.SelectedBucket(); ok {
		bucket = b.Name
	} else if sel, ok := m.machine.Selection(); ok {
		if sel.IsPrefix {
			prefix = sel.Key
		} else {
			key = sel.Key
		}
	}
	url, err := s3svc.ConsoleURL(m.cfg.S3, bucket, prefix, key)
	if err != nil {
		m.machine.Notify(nav.Warn, err.Error())
		return nil
	}
	return openConsole(url)
}

func (m *Model) quit() tea.Cmd {
	if m.job == nil {
		return tea.Quit
	}
	job := m.job
	m.onConfirm = func() tea.Cmd {
		job.Cancel()
		return tea.Quit
	}
	m.machine.PushOverlay(nav.Overlay{Kind: nav.ConfirmDialog, Title: "Quit",
		Text: "A download is running. Cancel it and quit?"})
	return nil
}

// autoRefresh refreshes the current listing when the user is not busy with
// an overlay or a pending request.
func (m *Model) autoRefresh() tea.Cmd {
	if _, ok := m.machine.Overlay(); ok || m.machine.Loading() {
		return nil
	}
	switch m.machine.Current().Kind() {
	case nav.BucketList, nav.ObjectList:
		m.log.Debug("Auto refresh", slog.String("location", m.machine.Breadcrumb()))
		return m.execute(m.machine.Refresh())
	}
	return nil
}

func (m *Model) bodyHeight() int {
	return max(m.height-chromeLines, 3)
}

// pageSize is the number of rows of a list page.
func (m *Model) pageSize() int {
	return max(m.bodyHeight()-1, 1)
}

// syncViewport renders the current preview in the viewport when it changed.
func (m *Model) syncViewport() {
	p, ok := m.machine.Current().View.(*nav.ObjectPreviewView)
	if !ok {
		m.previewSeen = previewState{}
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.bodyHeight()-1, 1)
	state := previewState{
		view:    p,
		gen:     m.previewGen,
		wrap:    p.Wrap,
		numbers: p.LineNumbers,
		width:   m.viewport.Width,
		height:  m.viewport.Height,
	}
	if state == m.previewSeen {
		return
	}
	m.viewport.SetContent(m.views.Preview(p, m.viewport.Width, m.viewport.Height))
	if state.view != m.previewSeen.view {
		m.viewport.GotoTop()
	}
	m.previewSeen = state
}
