package pact

import "errors"

// ErrInvalidPact wraps any failure to parse or schema-validate a pact
// document — malformed JSON, a document that fails the structural JSON
// Schema, or an interaction type this core does not serve.
var ErrInvalidPact = errors.New("invalid pact document")
