package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sgaunet/s3tui/pkg/app"
	"github.com/sgaunet/s3tui/pkg/config"
)

var version = "development"

type options struct {
	configFile string
	bucket     string
	prefix     string
	endpoint   string
	profile    string
	logFile    string
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "s3tui",
		Short:        "Browse S3-compatible storage from the terminal",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "f", "", "configuration file (default ~/.s3tui/config.yaml)")
	f.StringVarP(&opts.bucket, "bucket", "b", "", "open this bucket directly")
	f.StringVarP(&opts.prefix, "prefix", "p", "", "open this prefix of the bucket")
	f.StringVar(&opts.endpoint, "endpoint", "", "S3-compatible endpoint URL")
	f.StringVar(&opts.profile, "profile", "", "AWS profile")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	f.BoolVar(&opts.debug, "debug", false, "log at debug level")
	return cmd
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	l := initTrace(cfg.LogLevel, cfg.LogFile)

	// Handle SIGTERM/SIGINT
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	SetupCloseHandler(ctx, cancelFunc, l)

	s, err := app.NewApp(ctx, cfg, l)
	if err != nil {
		l.Error("error creating the app", slog.String("error", err.Error()))
		return err
	}
	if err := s.Run(ctx); err != nil {
		l.Error("UI error", slog.String("error", err.Error()))
		return fmt.Errorf("s3tui: %w", err)
	}
	return nil
}

// apply overrides the configuration with the flags that were set.
func (o options) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.S3.Bucket, o.bucket)
	set(&cfg.S3.Prefix, o.prefix)
	set(&cfg.S3.Endpoint, o.endpoint)
	set(&cfg.S3.SsoAwsProfile, o.profile)
	set(&cfg.LogFile, o.logFile)
	if o.debug {
		cfg.LogLevel = "debug"
	}
}

// SetupCloseHandler cancels the context on SIGINT or SIGTERM.
func SetupCloseHandler(ctx context.Context, cancelFunc context.CancelFunc, log *slog.Logger) {
	c := make(chan os.Signal, 5)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		select {
		case s := <-c:
			log.Info("INFO: signal received", slog.String("signal", s.String()))
			cancelFunc()
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()
}

// initTrace initializes the logger. The terminal belongs to the UI, so logs
// go to a rotated file, or nowhere.
func initTrace(debugLevel, logFile string) *slog.Logger {
	handlerOptions := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}

	switch debugLevel {
	case "debug":
		handlerOptions.Level = slog.LevelDebug
		handlerOptions.AddSource = true
	case "info":
		handlerOptions.Level = slog.LevelInfo
	case "warn":
		handlerOptions.Level = slog.LevelWarn
	case "error":
		handlerOptions.Level = slog.LevelError
	default:
		handlerOptions.Level = slog.LevelInfo
	}

	var out io.Writer = io.Discard
	if logFile != "" {
		out = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}
	return slog.New(slog.NewTextHandler(out, handlerOptions))
}
