package jsonrescue

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultStreamBufferLimit caps how much text a StreamParser will
// accumulate before Feed starts returning ErrStreamBufferFull, guarding
// against unbounded memory growth on a runaway or adversarial stream.
const DefaultStreamBufferLimit = 10 * 1024 * 1024 // 10MB

// ErrStreamBufferFull is returned by Feed once the accumulated buffer would
// exceed the configured limit.
var ErrStreamBufferFull = errors.New("jsonrescue: stream buffer limit exceeded")

// StreamOption configures a StreamParser.
type StreamOption func(*StreamParser)

// WithCollectAll switches a StreamParser from its default "stop at the
// first candidate that validates" behavior to collecting every chunk and
// only attempting extraction once, in Close. Use this when a schema
// expects content that may only become well-formed once the stream ends
// (for example, a single top-level array built up across many chunks).
func WithCollectAll() StreamOption {
	return func(s *StreamParser) { s.collectAll = true }
}

// WithStreamBufferLimit overrides DefaultStreamBufferLimit.
func WithStreamBufferLimit(limitBytes int) StreamOption {
	return func(s *StreamParser) {
		if limitBytes > 0 {
			s.bufferLimit = limitBytes
		}
	}
}

// StreamParser incrementally extracts a schema-conforming value from text
// arriving in chunks, as from a streaming LLM response. It re-runs the
// same extract/repair/decode/validate pipeline as Parser.Parse over the
// growing buffer after each Feed call.
//
// THREAD SAFETY: StreamParser is NOT safe for concurrent use. It follows a
// single-consumer design: one goroutine feeds it chunks in order and reads
// the result. The Parser it was built from remains safe to share and use
// concurrently for unrelated Parse or NewStream calls.
type StreamParser struct {
	parser *Parser

	mu          sync.Mutex
	buffer      strings.Builder
	bufferLimit int
	collectAll  bool
	closed      bool

	found  bool
	result any

	sessionID string
}

// NewStream creates a StreamParser that uses p's Schema and diagnostic
// configuration.
func (p *Parser) NewStream(opts ...StreamOption) *StreamParser {
	s := &StreamParser{
		parser:      p,
		bufferLimit: DefaultStreamBufferLimit,
		sessionID:   newSessionID(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Feed appends chunk to the internal buffer and, unless running in
// WithCollectAll mode, attempts to extract and validate a value from the
// buffer so far. It returns (value, true, nil) as soon as a candidate
// validates; subsequent Feed calls after that point are no-ops that
// re-return the cached result. It returns ErrStreamBufferFull if chunk
// would push the buffer past its configured limit.
func (s *StreamParser) Feed(chunk string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false, errors.New("jsonrescue: Feed called on a closed StreamParser")
	}
	if s.found {
		return s.result, true, nil
	}

	if s.buffer.Len()+len(chunk) > s.bufferLimit {
		return nil, false, fmt.Errorf("%w: limit %d bytes", ErrStreamBufferFull, s.bufferLimit)
	}
	s.buffer.WriteString(chunk)

	if s.collectAll {
		s.parser.emitMetric(StreamChunkFedData{
			SessionID:    s.sessionID,
			BufferLength: s.buffer.Len(),
			Found:        false,
		})
		return nil, false, nil
	}

	value, err := s.parser.Parse(s.buffer.String())
	found := err == nil
	if found {
		s.found = true
		s.result = value
	}

	s.parser.emitMetric(StreamChunkFedData{
		SessionID:    s.sessionID,
		BufferLength: s.buffer.Len(),
		Found:        found,
	})

	if !found {
		return nil, false, nil
	}
	return value, true, nil
}

// Close ends the stream. In default mode, it returns the cached result
// from whichever Feed call first produced one, or ErrNoMatch if none ever
// did. In WithCollectAll mode, Close performs the first and only
// extraction attempt, over everything accumulated since NewStream.
//
// Close is idempotent: calling it again returns the same result.
func (s *StreamParser) Close() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.found {
		return s.result, nil
	}
	return s.parser.Parse(s.buffer.String())
}

// newSessionID generates a correlation ID for a streaming session, using
// UUIDv7 for its timestamp-ordering benefits with a UUIDv4 fallback if
// entropy is unavailable.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "stream_" + id.String()
}
