package jsonrescue_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonrescue "github.com/juburr/jsonrescue"
)

func personSchema() *jsonrescue.Schema {
	return jsonrescue.Object(map[string]*jsonrescue.Schema{
		"name":   jsonrescue.String(),
		"age":    jsonrescue.Number(),
		"emails": jsonrescue.Array(jsonrescue.String()),
	}, "name", "age")
}

func personSchemaNoRequired() *jsonrescue.Schema {
	return jsonrescue.Object(map[string]*jsonrescue.Schema{
		"name":   jsonrescue.String(),
		"age":    jsonrescue.Number(),
		"emails": jsonrescue.Array(jsonrescue.String()),
	})
}

// Seed scenario 1: proper JSON with required fields present.
func TestParse_SeedScenario1_ProperJSON(t *testing.T) {
	p := jsonrescue.New(personSchema())
	got, err := p.Parse(`{"name": "John Doe", "age": 30, "emails": ["john@example.com"]}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "John Doe",
		"age":    30.0,
		"emails": []any{"john@example.com"},
	}, got)
}

// Seed scenario 2: missing required field yields ErrNoMatch.
func TestParse_SeedScenario2_MissingRequiredField(t *testing.T) {
	p := jsonrescue.New(personSchema())
	_, err := p.Parse(`{"name": "Test", "emails": ["test@example.com"]}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jsonrescue.ErrNoMatch))
}

func TestParse_NoRequiredFieldsAllowsPartialObject(t *testing.T) {
	p := jsonrescue.New(personSchemaNoRequired())
	got, err := p.Parse(`{"name": "Test", "emails": ["test@example.com"]}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "Test",
		"emails": []any{"test@example.com"},
	}, got)
}

// Seed scenario 3: prose surrounding the payload.
func TestParse_SeedScenario3_SurroundingProse(t *testing.T) {
	p := jsonrescue.New(personSchema())
	got, err := p.Parse(`Here is the data: {"name":"Jane","age":25,"emails":["jane@example.com"]} Thanks!`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "Jane",
		"age":    25.0,
		"emails": []any{"jane@example.com"},
	}, got)
}

// Seed scenario 4: array-unwrap for an object schema.
func TestParse_SeedScenario4_ArrayUnwrap(t *testing.T) {
	p := jsonrescue.New(personSchema())
	got, err := p.Parse(`[{"name":"Alice","age":28,"emails":["alice@example.com"]}]`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "Alice",
		"age":    28.0,
		"emails": []any{"alice@example.com"},
	}, got)
}

// Seed scenario 5: single-quoted key, bare multi-word value.
func TestParse_SeedScenario5_QuotingRepairs(t *testing.T) {
	p := jsonrescue.New(jsonrescue.Object(map[string]*jsonrescue.Schema{
		"name":   jsonrescue.String(),
		"age":    jsonrescue.Number(),
		"emails": jsonrescue.Array(jsonrescue.String()),
		"test":   jsonrescue.String(),
	}, "name", "age"))

	got, err := p.Parse(`{"name": "John Doe", "age": 22, 'emails': ["john.doe@example.com"], "test": Hello World}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "John Doe",
		"age":    22.0,
		"emails": []any{"john.doe@example.com"},
		"test":   "Hello World",
	}, got)
}

// Seed scenario 6: bracket-closure recovers missing closers.
func TestParse_SeedScenario6_BracketClosure(t *testing.T) {
	p := jsonrescue.New(personSchema())
	got, err := p.Parse(`Start {"name": "Bob", "age": 35, "emails": ["bob@example.com"`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "Bob",
		"age":    35.0,
		"emails": []any{"bob@example.com"},
	}, got)
}

func TestParse_MultipleTopLevelObjects_LeftmostWins(t *testing.T) {
	p := jsonrescue.New(personSchema())

	noSep := `{"name":"Charlie","age":40,"emails":["charlie@example.com"]}{"name":"Dana","age":27,"emails":["dana@example.com"]}`
	got, err := p.Parse(noSep)
	require.NoError(t, err)
	assert.Equal(t, "Charlie", got.(map[string]any)["name"])

	withComma := `{"name":"Charlie","age":40,"emails":["charlie@example.com"]},{"name":"Dana","age":27,"emails":["dana@example.com"]}`
	got, err = p.Parse(withComma)
	require.NoError(t, err)
	assert.Equal(t, "Charlie", got.(map[string]any)["name"])
}

func TestParse_IncompleteArrayOfObjects(t *testing.T) {
	// The closed emails array is a balanced region, so it is the only
	// candidate (the unclosed fallback is used only when no balanced region
	// exists); a bare string array does not validate as a person object.
	p := jsonrescue.New(personSchema())
	_, err := p.Parse(`[{"name": "Frank", "age": 33, "emails": ["frank@example.com"]`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jsonrescue.ErrNoMatch))
}

func TestParse_NoMatchWhenNothingValidates(t *testing.T) {
	p := jsonrescue.New(personSchema())
	_, err := p.Parse("just some prose with no payload at all")
	require.Error(t, err)
	assert.True(t, errors.Is(err, jsonrescue.ErrNoMatch))
}

func TestParse_IdempotentOnWellFormedInput(t *testing.T) {
	p := jsonrescue.New(personSchema())
	text := `{"name":"Grace","age":41,"emails":["grace@example.com"]}`
	got, err := p.Parse(text)
	require.NoError(t, err)

	var canonical map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &canonical))
	assert.Equal(t, canonical, got)
}

func TestParse_SelectivePropertyRecursionPassesUnknownKeysThrough(t *testing.T) {
	p := jsonrescue.New(jsonrescue.Object(map[string]*jsonrescue.Schema{
		"name": jsonrescue.String(),
	}, "name"))

	got, err := p.Parse(`{"name":"Henry","unrelated":{"nested":true}}`)
	require.NoError(t, err)
	m := got.(map[string]any)
	assert.Equal(t, "Henry", m["name"])
	assert.Equal(t, map[string]any{"nested": true}, m["unrelated"])
}

func TestParse_RoundTrip(t *testing.T) {
	p := jsonrescue.New(personSchema())
	got, err := p.Parse(`{"name":"Ivy","age":19,"emails":["ivy@example.com"]}`)
	require.NoError(t, err)

	encoded, err := json.Marshal(got)
	require.NoError(t, err)
	again, err := p.Parse(string(encoded))
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestParse_MetricsCallbackObservesLifecycle(t *testing.T) {
	var events []jsonrescue.MetricEvent
	p := jsonrescue.New(personSchema(), jsonrescue.WithMetricsCallback(func(d jsonrescue.MetricEventData) {
		events = append(events, d.EventType())
	}))

	_, err := p.Parse(`{"name":"Jack","age":50,"emails":["jack@example.com"]}`)
	require.NoError(t, err)

	assert.Contains(t, events, jsonrescue.MetricEventCandidateExtracted)
	assert.Contains(t, events, jsonrescue.MetricEventParseSucceeded)
}

func TestParse_MetricsCallbackPanicIsIsolated(t *testing.T) {
	p := jsonrescue.New(personSchema(), jsonrescue.WithMetricsCallback(func(jsonrescue.MetricEventData) {
		panic("boom")
	}))

	assert.NotPanics(t, func() {
		_, _ = p.Parse(`{"name":"Kim","age":44,"emails":["kim@example.com"]}`)
	})
}

func TestParse_MaxCandidatesLimitsSearch(t *testing.T) {
	p := jsonrescue.New(personSchema(), jsonrescue.WithMaxCandidates(1))
	input := `{"name":"Leo","age":1,"emails":[]}{"name":"Noah","age":2,"emails":[]}`

	got, err := p.Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "Leo", got.(map[string]any)["name"])
}
