// Package app is the terminal UI of s3tui: a bubbletea program driving the
// navigation machine, the preview pipeline and the download orchestrator.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sgaunet/s3tui/pkg/config"
	"github.com/sgaunet/s3tui/pkg/health"
	"github.com/sgaunet/s3tui/pkg/s3svc"
	"github.com/sgaunet/s3tui/pkg/scheduler"
)

// App wires the gateway, the health tracker and the UI together.
type App struct {
	cfg     config.Config
	raw     s3svc.Gateway
	gw      s3svc.Gateway
	tracker *health.Tracker
	log     *slog.Logger
}

// NewApp connects to the storage service described by cfg.
func NewApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	raw, err := s3svc.New(ctx, cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("error creating the gateway: %w", err)
	}
	return newApp(cfg, raw, log), nil
}

func newApp(cfg config.Config, raw s3svc.Gateway, log *slog.Logger) *App {
	tracker := health.NewTracker(log)
	return &App{
		cfg:     cfg,
		raw:     raw,
		gw:      s3svc.Monitor(raw, tracker),
		tracker: tracker,
		log:     log,
	}
}

// Model returns a new UI model bound to the gateway of the app.
func (a *App) Model(ctx context.Context) *Model {
	m := NewModel(ctx, a.cfg, a.gw, a.tracker)
	m.SetLogger(a.log)
	return m
}

// Run runs the UI until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	p := tea.NewProgram(a.Model(ctx), tea.WithAltScreen(), tea.WithContext(ctx))

	sched := scheduler.NewScheduler(a.cfg.UI.AutoRefresh, func() { p.Send(autoRefresh{}) })
	sched.SetLogger(a.log)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	a.tracker.Start(ctx, a.cfg.UI.HealthCheckInterval, a.probe)
	defer a.tracker.Stop()

	a.log.Info("Starting UI", slog.String("driver", a.cfg.S3.Driver), slog.String("endpoint", a.cfg.S3.Endpoint))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		a.log.Info("UI stopped by signal")
		return nil
	}
	return err
}

// probe checks the gateway without going through the monitor, the tracker
// records its outcome itself.
func (a *App) probe(ctx context.Context) error {
	_, err := a.raw.ListBuckets(ctx)
	return err
}
