package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3tui/pkg/config"
	"github.com/sgaunet/s3tui/pkg/nav"
	"github.com/sgaunet/s3tui/pkg/preview"
	"github.com/sgaunet/s3tui/pkg/s3svc/s3svctest"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Config{}
	cfg.Download.Dir = t.TempDir()
	cfg.Download.MaxConcurrentRequests = 2
	cfg.ApplyDefaults()
	return cfg
}

func fixture() *s3svctest.Memory {
	mem := s3svctest.NewMemory()
	mem.PutString("data", "docs/a.txt", "alpha")
	mem.PutString("data", "docs/b.txt", "beta")
	mem.PutString("data", "readme.txt", "hello world")
	return mem
}

// drain runs cmd and every command it leads to, feeding the messages back
// to the model. Timers are not followed.
func drain(t *testing.T, m *Model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	var last tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case spinner.TickMsg, healthTick, downloadTick:
			continue
		}
		last = msg
		_, next := m.Update(msg)
		queue = append(queue, next)
	}
	return last
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys one by one and returns the last message produced.
func press(t *testing.T, m *Model, keys ...string) tea.Msg {
	t.Helper()
	var last tea.Msg
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		last = drain(t, m, cmd)
	}
	return last
}

func newTestModel(t *testing.T, mem *s3svctest.Memory, cfg config.Config) *Model {
	t.Helper()
	m := NewModel(context.Background(), cfg, mem, nil)
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	drain(t, m, m.Init())
	return m
}

func TestModel_StartAndOpen(t *testing.T) {
	m := newTestModel(t, fixture(), testConfig(t))

	require.Equal(t, nav.BucketList, m.machine.Current().Kind())
	assert.Equal(t, 1, m.machine.Current().Len())
	assert.Contains(t, m.View(), "data")

	press(t, m, "enter")
	assert.Equal(t, nav.ObjectList, m.machine.Current().Kind())
	assert.Equal(t, "data", m.machine.Breadcrumb())
	assert.Equal(t, 2, m.machine.Current().Len())

	press(t, m, "enter")
	assert.Equal(t, "data / docs", m.machine.Breadcrumb())

	press(t, m, "esc", "esc")
	assert.Equal(t, nav.BucketList, m.machine.Current().Kind())
}

func TestModel_StartAtLocation(t *testing.T) {
	cfg := testConfig(t)
	cfg.S3.Bucket = "data"
	cfg.S3.Prefix = "docs"
	m := newTestModel(t, fixture(), cfg)

	assert.Equal(t, 1, m.machine.Depth())
	assert.Equal(t, "data / docs", m.machine.Breadcrumb())
	assert.Equal(t, 2, m.machine.Current().Len())
}

func TestModel_DetailAndPreview(t *testing.T) {
	mem := fixture()
	m := newTestModel(t, mem, testConfig(t))

	press(t, m, "enter", "down", "enter")
	require.Equal(t, nav.ObjectDetail, m.machine.Current().Kind())
	assert.Equal(t, 1, mem.Calls("HeadObject"))
	assert.Contains(t, m.View(), "readme.txt")
	assert.Contains(t, m.View(), "s3://data/readme.txt")

	press(t, m, "p")
	require.Equal(t, nav.ObjectPreview, m.machine.Current().Kind())
	p := m.machine.Current().View.(*nav.ObjectPreviewView)
	text, ok := p.Content.(preview.Text)
	require.True(t, ok)
	assert.Equal(t, "hello world", text.Decoded)
	assert.Contains(t, m.View(), "hello world")

	press(t, m, "n")
	assert.True(t, p.LineNumbers)
	assert.Contains(t, m.View(), "1 hello world")
}

func TestModel_PreviewRedecode(t *testing.T) {
	mem := fixture()
	mem.Put("data", "jp.txt", []byte{0x82, 0xa0}, t0)
	m := newTestModel(t, mem, testConfig(t))

	press(t, m, "enter", "down", "p")
	p := m.machine.Current().View.(*nav.ObjectPreviewView)
	require.Equal(t, "jp.txt", p.Key)

	text := p.Content.(preview.Text)
	require.Equal(t, "utf-16le", text.EncodingUsed)

	press(t, m, "e")
	o, ok := m.machine.Overlay()
	require.True(t, ok)
	assert.Equal(t, nav.EncodingMenu, o.Kind)
	assert.Equal(t, 1, o.Cursor)

	press(t, m, "down", "down", "enter")
	_, ok = m.machine.Overlay()
	assert.False(t, ok)
	text = p.Content.(preview.Text)
	assert.Equal(t, "shift_jis", text.EncodingUsed)
	assert.Equal(t, "あ", text.Decoded)
}

func TestModel_PreviewTooLarge(t *testing.T) {
	mem := fixture()
	cfg := testConfig(t)
	cfg.Preview.MaxSize = 4
	m := newTestModel(t, mem, cfg)

	press(t, m, "enter", "down", "p")
	p := m.machine.Current().View.(*nav.ObjectPreviewView)
	assert.IsType(t, preview.Unsupported{}, p.Content)
	assert.Equal(t, 0, mem.Calls("GetObject"))
}

func TestModel_Filter(t *testing.T) {
	m := newTestModel(t, fixture(), testConfig(t))
	press(t, m, "enter")

	press(t, m, "/", "r", "e", "a", "d")
	o, ok := m.machine.Overlay()
	require.True(t, ok)
	assert.Equal(t, nav.FilterInput, o.Kind)
	assert.Equal(t, 1, m.machine.Current().Len())

	press(t, m, "enter")
	_, ok = m.machine.Overlay()
	assert.False(t, ok)
	assert.Equal(t, "read", m.machine.Current().Filter)

	press(t, m, "/", "x", "esc")
	assert.Equal(t, "read", m.machine.Current().Filter)
	assert.Equal(t, 1, m.machine.Current().Len())
}

func TestModel_Sort(t *testing.T) {
	m := newTestModel(t, fixture(), testConfig(t))
	press(t, m, "enter")

	press(t, m, "o", "down", "enter")
	_, ok := m.machine.Overlay()
	assert.False(t, ok)
	assert.NotEqual(t, nav.SortDefault, m.machine.Current().Sort.Field)
}

func TestModel_DownloadObject(t *testing.T) {
	cfg := testConfig(t)
	m := newTestModel(t, fixture(), cfg)

	press(t, m, "enter", "down", "s")
	assert.Nil(t, m.job)

	data, err := os.ReadFile(filepath.Join(cfg.Download.Dir, "readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	banner, ok := m.machine.Banner()
	require.True(t, ok)
	assert.Equal(t, nav.Success, banner.Level)
	assert.Contains(t, banner.Message, "readme.txt")
}

func TestModel_DownloadPrefix(t *testing.T) {
	cfg := testConfig(t)
	m := newTestModel(t, fixture(), cfg)

	press(t, m, "enter", "s")

	for key, want := range map[string]string{"docs/a.txt": "alpha", "docs/b.txt": "beta"} {
		data, err := os.ReadFile(filepath.Join(cfg.Download.Dir, filepath.FromSlash(key)))
		require.NoError(t, err, key)
		assert.Equal(t, want, string(data))
	}
}

func TestModel_DownloadAs(t *testing.T) {
	cfg := testConfig(t)
	m := newTestModel(t, fixture(), cfg)

	press(t, m, "enter", "down", "S")
	o, ok := m.machine.Overlay()
	require.True(t, ok)
	require.Equal(t, nav.SaveAsDialog, o.Kind)
	assert.Equal(t, "readme.txt", m.input.Value())

	press(t, m, "ctrl+u", "c", "o", "p", "y", "enter")

	data, err := os.ReadFile(filepath.Join(cfg.Download.Dir, "copy"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestModel_DownloadAsPrefix(t *testing.T) {
	cfg := testConfig(t)
	m := newTestModel(t, fixture(), cfg)

	press(t, m, "enter", "S")
	o, ok := m.machine.Overlay()
	require.True(t, ok)
	require.Equal(t, nav.SaveAsDialog, o.Kind)
	assert.Equal(t, "docs", m.input.Value())

	press(t, m, "ctrl+u", "n", "o", "t", "e", "s", "enter")

	for name, want := range map[string]string{"a.txt": "alpha", "b.txt": "beta"} {
		data, err := os.ReadFile(filepath.Join(cfg.Download.Dir, "notes", name))
		require.NoError(t, err, name)
		assert.Equal(t, want, string(data))
	}
	assert.NoDirExists(t, filepath.Join(cfg.Download.Dir, "docs"))
}

func TestModel_DownloadBucket(t *testing.T) {
	cfg := testConfig(t)
	m := newTestModel(t, fixture(), cfg)
	require.Equal(t, nav.BucketList, m.machine.Current().Kind())

	press(t, m, "s")
	require.Nil(t, m.job)
	for key, want := range map[string]string{"docs/a.txt": "alpha", "docs/b.txt": "beta", "readme.txt": "hello world"} {
		data, err := os.ReadFile(filepath.Join(cfg.Download.Dir, filepath.FromSlash(key)))
		require.NoError(t, err, key)
		assert.Equal(t, want, string(data))
	}

	press(t, m, "S")
	assert.Equal(t, "data", m.input.Value())
	press(t, m, "enter")
	data, err := os.ReadFile(filepath.Join(cfg.Download.Dir, "data", "readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestModel_CancelWithoutDownload(t *testing.T) {
	m := newTestModel(t, fixture(), testConfig(t))

	press(t, m, "ctrl+x")
	banner, ok := m.machine.Banner()
	require.True(t, ok)
	assert.Equal(t, "no download is running", banner.Message)
}

func TestModel_ErrorBannerConsumesKey(t *testing.T) {
	mem := fixture()
	mem.SetDown(errors.New("connection refused"))
	m := newTestModel(t, mem, testConfig(t))

	banner, ok := m.machine.Banner()
	require.True(t, ok)
	assert.Equal(t, nav.Error, banner.Level)
	assert.Contains(t, m.View(), "failed to list buckets")

	mem.SetDown(nil)
	press(t, m, "R")
	_, ok = m.machine.Banner()
	assert.False(t, ok)
	assert.Equal(t, 0, m.machine.Current().Len())

	press(t, m, "R")
	assert.Equal(t, 1, m.machine.Current().Len())
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, fixture(), testConfig(t))

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_QuitWhileDownloading(t *testing.T) {
	m := newTestModel(t, fixture(), testConfig(t))
	press(t, m, "enter")
	sel, _ := m.machine.Selection()
	m.job = m.orchestrator.NewJob(downloadTarget(sel))

	_, cmd := m.Update(keyMsg("q"))
	assert.Nil(t, cmd)
	o, ok := m.machine.Overlay()
	require.True(t, ok)
	assert.Equal(t, nav.ConfirmDialog, o.Kind)
	assert.Contains(t, m.View(), "Cancel it and quit?")

	_, cmd = m.Update(keyMsg("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.job.IsCancelled())
}

func TestModel_ConsoleCustomEndpoint(t *testing.T) {
	cfg := testConfig(t)
	cfg.S3.Endpoint = "http://localhost:9000"
	m := newTestModel(t, fixture(), cfg)

	_, cmd := m.Update(keyMsg("x"))
	assert.Nil(t, cmd)
	banner, ok := m.machine.Banner()
	require.True(t, ok)
	assert.Equal(t, nav.Warn, banner.Level)
	assert.Contains(t, banner.Message, "only available for AWS S3")
}

func TestModel_AutoRefresh(t *testing.T) {
	mem := fixture()
	m := newTestModel(t, mem, testConfig(t))
	press(t, m, "enter")
	require.Equal(t, 2, m.machine.Current().Len())

	mem.PutString("data", "new.txt", "new")
	_, cmd := m.Update(autoRefresh{})
	drain(t, m, cmd)
	assert.Equal(t, 3, m.machine.Current().Len())

	press(t, m, "/")
	_, cmd = m.Update(autoRefresh{})
	assert.Nil(t, cmd)
}

func TestModel_Help(t *testing.T) {
	m := newTestModel(t, fixture(), testConfig(t))

	press(t, m, "?")
	o, ok := m.machine.Overlay()
	require.True(t, ok)
	assert.Equal(t, nav.HelpOverlay, o.Kind)
	assert.Contains(t, m.View(), "refresh")

	press(t, m, "j")
	_, ok = m.machine.Overlay()
	assert.False(t, ok)
}
