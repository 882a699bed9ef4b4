// Package jsonrescue extracts and recovers structured data from noisy text
// expected to contain an embedded JSON-like payload — for example, the
// output of a language model that emits prose around a JSON object, uses
// unquoted keys, stray single quotes, or leaves brackets unclosed.
//
// A caller supplies a Schema describing the shape it wants; Parse returns
// the first candidate substring of the input that, after a fixed sequence
// of textual repairs, decodes as JSON and validates against that Schema.
//
// CONCURRENCY SUMMARY:
//   - Parser: thread-safe, safe to share across goroutines and Parse calls
//   - StreamParser: NOT thread-safe, single-consumer design
package jsonrescue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/juburr/jsonrescue/internal/extract"
	"github.com/juburr/jsonrescue/internal/repair"
)

// DefaultMaxCandidates caps the number of extracted candidates a Parse
// call will attempt before giving up, when no WithMaxCandidates option is
// supplied. Zero means unlimited.
const DefaultMaxCandidates = 0

// Parser orchestrates candidate extraction, repair, strict decoding, and
// schema validation.
//
// THREAD SAFETY: Parser instances are safe for concurrent use by multiple
// goroutines. All fields are immutable after construction by New; Parse
// holds no shared mutable state across calls.
type Parser struct {
	schema *Schema

	logger          *slog.Logger
	metricsCallback func(MetricEventData)
	maxCandidates   int
	maxNestingDepth int
}

// New creates a Parser for the given Schema. The Schema is not copied; it
// must not be mutated while any Parser built from it is in use.
func New(schema *Schema, opts ...Option) *Parser {
	p := &Parser{
		schema:          schema,
		logger:          noopLogger(),
		maxCandidates:   DefaultMaxCandidates,
		maxNestingDepth: extract.DefaultMaxNestingDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts candidates from text, in textual order, repairing and
// decoding each in turn, and returns the first one that validates against
// the Parser's Schema. It returns ErrNoMatch if no candidate succeeds.
func (p *Parser) Parse(text string) (any, error) {
	start := time.Now()

	candidates := extract.ExtractWithDepth(text, p.maxNestingDepth)
	p.emitMetric(CandidateExtractedData{
		InputLength:    len(text),
		CandidateCount: len(candidates),
		Performance:    PerformanceMetrics{ProcessingDuration: time.Since(start)},
	})

	limit := len(candidates)
	if p.maxCandidates > 0 && p.maxCandidates < limit {
		limit = p.maxCandidates
	}

	for i := 0; i < limit; i++ {
		value, ok := p.tryCandidate(i, candidates[i])
		if ok {
			p.emitMetric(ParseSucceededData{
				CandidateIndex: i,
				Performance:    PerformanceMetrics{ProcessingDuration: time.Since(start)},
			})
			return value, nil
		}
	}

	p.emitMetric(ParseFailedData{
		CandidatesTried: limit,
		Performance:     PerformanceMetrics{ProcessingDuration: time.Since(start)},
	})
	return nil, fmt.Errorf("%w: %d candidate(s) tried", ErrNoMatch, limit)
}

func (p *Parser) tryCandidate(index int, candidate string) (any, bool) {
	repaired := repair.Repair(candidate)
	if repaired == "" {
		return nil, false
	}

	decoded, err := strictDecode(repaired)
	if err != nil {
		p.logger.Debug("candidate failed strict decode", "index", index, "error", err)
		p.emitMetric(ValidationFailedData{CandidateIndex: index, Stage: "decode", Message: err.Error()})
		return nil, false
	}

	validated, ok := p.schema.Validated(decoded)
	if !ok {
		p.logger.Debug("candidate failed schema validation", "index", index)
		p.emitMetric(ValidationFailedData{
			CandidateIndex: index,
			Stage:          "validate",
			Message:        "decoded value did not conform to schema",
		})
		return nil, false
	}

	return validated, true
}

// strictDecode decodes repaired JSON text using the standard library
// decoder with no leniency beyond what encoding/json itself provides.
func strictDecode(text string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func (p *Parser) emitMetric(data MetricEventData) {
	if p.metricsCallback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("metrics callback panicked, continuing",
				"panic", r, "event_type", data.EventType())
		}
	}()
	p.metricsCallback(data)
}
