package jsonrescue

import (
	"io"
	"log/slog"
	"os"
)

// Option configures a Parser. The functional-options pattern lets New
// accept any combination of configuration without breaking callers when a
// new option is added later.
type Option func(*Parser)

// WithLogger sets a custom slog.Logger for the parser. Logging here is
// purely advisory — diagnostic output about candidates rejected at decode
// or validation time — and never affects control flow.
//
// If no logger is provided, a no-op logger is used so Parser works out of
// the box without configuring logging.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger == nil {
			p.logger = noopLogger()
			return
		}
		p.logger = logger
	}
}

// WithLogLevel is a convenience option for logging as text to os.Stderr at a
// specific level, rather than constructing a logger with WithLogger.
func WithLogLevel(level slog.Level) Option {
	return func(p *Parser) {
		p.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
}

// WithMetricsCallback sets a callback that receives typed metric events for
// every significant step of a Parse call: candidate extraction, per-
// candidate rejection, and the final success or failure. This is the
// library's opaque diagnostic sink.
//
// The callback runs synchronously on the calling goroutine and is
// panic-isolated: a panicking callback is recovered, logged, and does not
// affect the Parse call's outcome.
func WithMetricsCallback(callback func(MetricEventData)) Option {
	return func(p *Parser) {
		p.metricsCallback = callback
	}
}

// WithMaxCandidates caps how many extracted candidates Parse will attempt
// to repair and decode before giving up. Zero or negative values are
// ignored with a warning, leaving the current limit (by default, none) in
// place. This bounds worst-case work on pathological input containing many
// bracket-balanced regions.
func WithMaxCandidates(max int) Option {
	return func(p *Parser) {
		if max > 0 {
			p.maxCandidates = max
		} else {
			p.logger.Warn("non-positive value supplied to WithMaxCandidates, ignoring",
				"supplied", max)
		}
	}
}

// WithMaxNestingDepth bounds the bracket-nesting depth the extractor will
// track before abandoning a candidate, guarding against pathological input
// crafted to exhaust memory via deep nesting.
//
// Default: extract.DefaultMaxNestingDepth (256).
func WithMaxNestingDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxNestingDepth = depth
		} else {
			p.logger.Warn("non-positive value supplied to WithMaxNestingDepth, ignoring",
				"supplied", depth)
		}
	}
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1,
	}))
}
