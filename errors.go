package jsonrescue

import "errors"

// ErrNoMatch is returned by Parse when no extracted candidate, after
// repair, both decodes as JSON and validates against the Schema.
var ErrNoMatch = errors.New("jsonrescue: no candidate matched the schema")
