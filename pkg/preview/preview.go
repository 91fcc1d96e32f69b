package preview

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/sgaunet/s3tui/pkg/config"
)

// Options configures a Pipeline.
type Options struct {
	Encodings  []string
	AutoDetect bool
	// Confidence is the minimum auto-detection confidence, 0-100.
	Confidence int
	Highlight  bool
	Theme      string
	Images     bool
	// Protocols are the image protocols the terminal supports.
	Protocols []string
	MaxSize   int64
}

// OptionsFromConfig builds the options of the pipeline. Configured image
// protocols replace terminal detection.
func OptionsFromConfig(cfg config.PreviewConfig) Options {
	protocols := cfg.ImageProtocols
	if len(protocols) == 0 {
		tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		protocols = DetectProtocols(os.Getenv, tty)
	}
	return Options{
		Encodings:  slices.Clone(cfg.Encodings),
		AutoDetect: cfg.AutoDetectEncoding,
		Confidence: cfg.DetectConfidence,
		Highlight:  cfg.HighlightEnabled(),
		Theme:      cfg.HighlightTheme,
		Images:     cfg.ImageEnabled(),
		Protocols:  protocols,
		MaxSize:    cfg.MaxSize,
	}
}

// Pipeline builds previews. It holds no state besides its options and is
// safe for concurrent use.
type Pipeline struct {
	opts Options
	log  *slog.Logger
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		opts: opts,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger
func (p *Pipeline) SetLogger(log *slog.Logger) {
	if log != nil {
		p.log = log
	}
}

// Encodings returns the candidate encodings, offered by the encoding menu.
func (p *Pipeline) Encodings() []string {
	return p.opts.Encodings
}

// TooLarge reports whether an object of size bytes must not be fetched.
func (p *Pipeline) TooLarge(size int64) bool {
	return p.opts.MaxSize > 0 && size > p.opts.MaxSize
}

// Oversized is the content shown instead of fetching a large object.
func (p *Pipeline) Oversized(size int64) Content {
	return Unsupported{Reason: fmt.Sprintf("object is too large to preview (%s > %s)",
		humanize.IBytes(uint64(size)), humanize.IBytes(uint64(p.opts.MaxSize)))}
}

// Build classifies data and returns its preview.
func (p *Pipeline) Build(name string, data []byte) Content {
	kind, mime := Classify(name, data)
	p.log.Debug("Building preview", slog.String("name", name), slog.String("mime", mime),
		slog.Int("size", len(data)))

	switch kind {
	case KindImage:
		return p.buildImage(data)
	case KindOtherImage:
		return Unsupported{Reason: fmt.Sprintf("image format %s is not supported", mime)}
	}

	candidates := p.opts.Encodings
	if p.opts.AutoDetect {
		if enc, ok := Detect(data, p.opts.Confidence); ok {
			p.log.Debug("Detected encoding", slog.String("encoding", enc))
			candidates = append([]string{enc}, candidates...)
		}
	}
	return p.buildText(name, data, candidates)
}

// Redecode decodes data again with encoding only.
func (p *Pipeline) Redecode(name string, data []byte, encoding string) Content {
	return p.buildText(name, data, []string{encoding})
}

func (p *Pipeline) buildText(name string, data []byte, candidates []string) Content {
	text, err := Decode(data, candidates)
	if err != nil {
		p.log.Debug("Failed to decode", slog.String("name", name), slog.String("error", err.Error()))
		return Failed{Err: err}
	}
	if p.opts.Highlight {
		text.Highlighted = Highlight(name, text.Decoded, p.opts.Theme)
	}
	return text
}

func (p *Pipeline) buildImage(data []byte) Content {
	if !p.opts.Images {
		return Unsupported{Reason: "image preview is disabled"}
	}
	protocol, ok := ChooseProtocol(p.opts.Protocols)
	if !ok {
		return Unsupported{Reason: "the terminal supports no image protocol"}
	}
	img, format, err := DecodeImage(data)
	if err != nil {
		return Failed{Err: err}
	}
	return Image{Pixels: img, Protocol: protocol, Format: format}
}
