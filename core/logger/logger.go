package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Format selects the slog handler used by New.
type Format int

const (
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = iota
	// FormatText writes logfmt-style lines through slog.TextHandler.
	FormatText
	// FormatPretty writes colourised, human-oriented lines (development).
	FormatPretty
)

type options struct {
	level  slog.Level
	format Format
	output io.Writer
	attrs  []slog.Attr
}

// Option configures New.
type Option func(*options)

// New builds a *slog.Logger. Without options it logs JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	o := options{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var h slog.Handler
	switch o.format {
	case FormatPretty:
		h = charmlog.NewWithOptions(o.output, charmlog.Options{
			Level:           charmlog.Level(o.level),
			ReportTimestamp: true,
		})
	case FormatText:
		h = slog.NewTextHandler(o.output, &slog.HandlerOptions{Level: o.level})
	default:
		h = slog.NewJSONHandler(o.output, &slog.HandlerOptions{Level: o.level})
	}

	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}
	return slog.New(h)
}

// WithDevelopment configures pretty output at debug level tagged with service.
func WithDevelopment(service string) Option {
	return func(o *options) {
		o.level = slog.LevelDebug
		o.format = FormatPretty
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "development"))
	}
}

// WithProduction configures JSON output at info level tagged with service.
func WithProduction(service string) Option {
	return func(o *options) {
		o.level = slog.LevelInfo
		o.format = FormatJSON
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "production"))
	}
}

// WithLevel overrides the minimum level.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithFormat overrides the output format.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr attaches attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
