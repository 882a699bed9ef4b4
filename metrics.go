package jsonrescue

import "time"

// MetricEvent represents the type of metric event being emitted. Each
// event corresponds to a significant operation within the parse pipeline.
type MetricEvent string

const (
	// MetricEventCandidateExtracted fires once per Parse call with the
	// number of candidates the extractor produced.
	MetricEventCandidateExtracted MetricEvent = "candidate_extracted"

	// MetricEventValidationFailed fires every time a repaired candidate
	// fails strict decoding or schema validation and the parser advances to
	// the next candidate. This is the library's opaque diagnostic sink.
	MetricEventValidationFailed MetricEvent = "validation_failed"

	// MetricEventParseSucceeded fires once a candidate validates and Parse
	// is about to return.
	MetricEventParseSucceeded MetricEvent = "parse_succeeded"

	// MetricEventParseFailed fires when Parse exhausts every candidate
	// without a match, immediately before ErrNoMatch is returned.
	MetricEventParseFailed MetricEvent = "parse_failed"

	// MetricEventStreamChunkFed fires every time StreamParser.Feed appends a
	// chunk to its buffer, reporting whether the accumulated buffer now
	// validates (always false in WithCollectAll mode). Feed calls that return
	// an error or an already-cached result emit no event.
	MetricEventStreamChunkFed MetricEvent = "stream_chunk_fed"
)

// MetricEventData is implemented by all metric event data structures. This
// interface enables type-safe handling of different event types while
// keeping the callback signature uniform.
type MetricEventData interface {
	EventType() MetricEvent
}

// PerformanceMetrics carries timing information included with most events.
//
// Thread Safety: PerformanceMetrics instances are immutable after creation
// and safe for concurrent access by metrics callbacks.
type PerformanceMetrics struct {
	ProcessingDuration time.Duration `json:"processing_duration"`
}

// CandidateExtractedData reports how many bracket-balanced candidates the
// extractor found for a given input.
type CandidateExtractedData struct {
	InputLength    int                `json:"input_length"`
	CandidateCount int                `json:"candidate_count"`
	Performance    PerformanceMetrics `json:"performance"`
}

func (d CandidateExtractedData) EventType() MetricEvent { return MetricEventCandidateExtracted }

// ValidationFailedData reports a single candidate's rejection, either at
// decode time or at schema-validation time. Message is advisory text only
// and must never be relied on for control flow.
type ValidationFailedData struct {
	CandidateIndex int    `json:"candidate_index"`
	Stage          string `json:"stage"` // "decode" or "validate"
	Message        string `json:"message"`
}

func (d ValidationFailedData) EventType() MetricEvent { return MetricEventValidationFailed }

// ParseSucceededData reports the winning candidate's position and the
// total time spent across extraction, repair, decode, and validation.
type ParseSucceededData struct {
	CandidateIndex int                `json:"candidate_index"`
	Performance    PerformanceMetrics `json:"performance"`
}

func (d ParseSucceededData) EventType() MetricEvent { return MetricEventParseSucceeded }

// ParseFailedData reports that every candidate was exhausted.
type ParseFailedData struct {
	CandidatesTried int                `json:"candidates_tried"`
	Performance     PerformanceMetrics `json:"performance"`
}

func (d ParseFailedData) EventType() MetricEvent { return MetricEventParseFailed }

// StreamChunkFedData reports a single Feed call on a StreamParser.
// SessionID correlates every event emitted by the same StreamParser, so a
// caller aggregating metrics across many concurrent streaming sessions can
// tell them apart.
type StreamChunkFedData struct {
	SessionID    string `json:"session_id"`
	BufferLength int    `json:"buffer_length"`
	Found        bool   `json:"found"`
}

func (d StreamChunkFedData) EventType() MetricEvent { return MetricEventStreamChunkFed }
