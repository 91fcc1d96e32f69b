// Package scanner enumerates every object key under a prefix by walking the
// virtual hierarchy one delimited listing at a time.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/s3svc"
)

// ErrCancelled is returned when the walk is stopped before completion.
var ErrCancelled = errors.New("enumeration cancelled")

// progressEvery is the number of keys between two progress reports.
const progressEvery = 1000

// Service walks prefixes through a gateway.
type Service struct {
	gw  s3svc.Gateway
	log *slog.Logger
}

// NewService creates a new scanner service
func NewService(gw s3svc.Gateway) *Service {
	return &Service{
		gw:  gw,
		log: slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for the scanner
func (s *Service) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// Walk describes one enumeration.
type Walk struct {
	Bucket    string
	Prefix    string
	Delimiter string
	// Stopped is checked before every listing call.
	Stopped func() bool
	// Progress is called with the number of keys found so far.
	Progress func(keys int)
}

// Enumerate returns every object key under the prefix, depth first, each
// directory level in listing order. Directory markers (keys ending with the
// delimiter) are skipped. The walk is sequential; a listing error aborts it.
func (s *Service) Enumerate(ctx context.Context, w Walk) ([]string, error) {
	if w.Delimiter == "" {
		w.Delimiter = dto.Delimiter
	}
	s.log.Info("Starting enumeration", slog.String("bucket", w.Bucket), slog.String("prefix", w.Prefix))

	keys := []string{}
	stack := []string{w.Prefix}
	for len(stack) > 0 {
		prefix := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := s.listLevel(ctx, w, prefix, &keys)
		if err != nil {
			s.log.Error("Enumeration failed",
				slog.String("bucket", w.Bucket),
				slog.String("prefix", prefix),
				slog.String("error", err.Error()))
			return nil, err
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	s.log.Info("Enumeration completed",
		slog.String("bucket", w.Bucket),
		slog.String("prefix", w.Prefix),
		slog.Int("keys", len(keys)))
	return keys, nil
}

// listLevel appends the objects listed directly under prefix to keys and
// returns its sub-prefixes.
func (s *Service) listLevel(ctx context.Context, w Walk, prefix string, keys *[]string) ([]string, error) {
	var children []string
	if s.stopped(ctx, w) {
		return nil, ErrCancelled
	}
	for page, err := range s.gw.ListObjects(ctx, w.Bucket, prefix, w.Delimiter) {
		if err != nil {
			if s3svc.IsCancelled(err) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("Enumerate: %s: %w", prefix, err)
		}
		for _, p := range page.CommonPrefixes {
			children = append(children, p.Key)
		}
		for _, obj := range page.Objects {
			if dto.IsDirKey(obj.Key) {
				continue
			}
			*keys = append(*keys, obj.Key)
			if len(*keys)%progressEvery == 0 {
				s.log.Debug("Enumeration progress", slog.Int("keys", len(*keys)))
			}
		}
		if w.Progress != nil {
			w.Progress(len(*keys))
		}
		if s.stopped(ctx, w) {
			return nil, ErrCancelled
		}
	}
	return children, nil
}

func (s *Service) stopped(ctx context.Context, w Walk) bool {
	return ctx.Err() != nil || (w.Stopped != nil && w.Stopped())
}
