package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/sgaunet/s3tui/pkg/config"
	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/s3svc"
	"github.com/sgaunet/s3tui/pkg/scanner"
)

// Orchestrator starts jobs against one gateway and one download directory.
type Orchestrator struct {
	gw        s3svc.Gateway
	scanner   *scanner.Service
	dir       string
	workers   int
	delimiter string
	log       *slog.Logger
}

// NewOrchestrator creates an orchestrator writing under cfg.Dir with
// cfg.MaxConcurrentRequests workers per job.
func NewOrchestrator(gw s3svc.Gateway, cfg config.DownloadConfig, delimiter string) *Orchestrator {
	if delimiter == "" {
		delimiter = dto.Delimiter
	}
	return &Orchestrator{
		gw:        gw,
		scanner:   scanner.NewService(gw),
		dir:       cfg.Dir,
		workers:   max(cfg.MaxConcurrentRequests, 1),
		delimiter: delimiter,
		log:       slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger
func (o *Orchestrator) SetLogger(log *slog.Logger) {
	if log != nil {
		o.log = log
		o.scanner.SetLogger(log)
	}
}

// Dir returns the download directory.
func (o *Orchestrator) Dir() string {
	return o.dir
}

// NewJob creates a job for target. Run executes it.
func (o *Orchestrator) NewJob(target Target) *Job {
	return newJob(target)
}

// Run enumerates the keys of the job, downloads them with at most N
// concurrent workers and returns the summary once every worker is done.
// Failures of single keys never stop the others.
func (o *Orchestrator) Run(ctx context.Context, job *Job) Summary {
	t := job.Target
	o.log.Info("Starting download",
		slog.String("job", job.ID.String()),
		slog.String("bucket", t.Bucket),
		slog.String("root", t.Root()))

	keys, err := o.enumerate(ctx, job)
	switch {
	case errors.Is(err, scanner.ErrCancelled):
		return o.done(job)
	case err != nil:
		job.abort(t.Root(), err)
		return o.done(job)
	}

	job.start(keys)
	workers := min(o.workers, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			return o.work(gctx, job)
		})
	}
	if err := g.Wait(); err != nil {
		o.log.Info("Download interrupted", slog.String("job", job.ID.String()), slog.String("error", err.Error()))
	}
	return o.done(job)
}

func (o *Orchestrator) enumerate(ctx context.Context, job *Job) ([]string, error) {
	t := job.Target
	if !t.Recursive {
		if job.IsCancelled() {
			return nil, scanner.ErrCancelled
		}
		return []string{t.Key}, nil
	}
	return o.scanner.Enumerate(ctx, scanner.Walk{
		Bucket:    t.Bucket,
		Prefix:    t.Prefix,
		Delimiter: o.delimiter,
		Stopped:   job.IsCancelled,
		Progress:  job.setFound,
	})
}

// work dequeues keys until the job is drained or cancelled. Failures of
// single keys are recorded, only the end of ctx stops the worker with an error.
func (o *Orchestrator) work(ctx context.Context, job *Job) error {
	for {
		if err := ctx.Err(); err != nil {
			job.Cancel()
			return err
		}
		key, ok := job.dequeue()
		if !ok {
			return nil
		}
		job.record(o.fetch(ctx, job.Target, key))
	}
}

func (o *Orchestrator) fetch(ctx context.Context, t Target, key string) Outcome {
	out := Outcome{Key: key}
	dst, err := o.localPath(t, key)
	if err != nil {
		out.Err = err
		return out
	}
	out.Path = dst

	version := ""
	if !t.Recursive {
		version = t.Version
	}
	body, err := o.gw.GetObject(ctx, t.Bucket, key, version)
	if err != nil {
		out.Err = err
		o.log.Warn("Download failed", slog.String("key", key), slog.String("error", err.Error()))
		return out
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		out.Err = fmt.Errorf("create directory: %w", err)
		return out
	}
	r := &countingReader{r: body}
	if err := atomic.WriteFile(dst, r); err != nil {
		out.Err = fmt.Errorf("write %s: %w", dst, err)
		o.log.Warn("Download failed", slog.String("key", key), slog.String("error", err.Error()))
		return out
	}
	out.Bytes = r.n
	o.log.Debug("Downloaded", slog.String("key", key), slog.Int64("bytes", r.n))
	return out
}

// localPath maps key to a path under the download directory: the key itself,
// SaveAs for a single object, or the key relative to the prefix under the
// SaveAs directory for a recursive target.
func (o *Orchestrator) localPath(t Target, key string) (string, error) {
	name := key
	switch {
	case t.SaveAs == "":
	case t.Recursive:
		name = path.Join(t.SaveAs, strings.TrimPrefix(key, t.Prefix))
	default:
		name = t.SaveAs
	}
	name = filepath.FromSlash(name)
	if !filepath.IsLocal(name) || dto.IsDirKey(key) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, key)
	}
	return filepath.Join(o.dir, name), nil
}

func (o *Orchestrator) done(job *Job) Summary {
	s := job.finish()
	attrs := []any{
		slog.String("job", s.ID),
		slog.String("state", s.State.String()),
		slog.Int("succeeded", s.Succeeded()),
		slog.Int("total", s.Total),
		slog.Duration("elapsed", s.Elapsed),
	}
	if err := s.Err(); err != nil {
		o.log.Warn("Download finished with failures", append(attrs, slog.String("error", err.Error()))...)
	} else {
		o.log.Info("Download finished", attrs...)
	}
	return s
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
