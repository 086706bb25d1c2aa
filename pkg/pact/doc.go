// Package pact defines the in-memory pact document model: the consumer and
// provider identities, the ordered list of expected interactions, and the
// per-field matching-rule and generator trees attached to a request or
// response.
//
// Parsing and validation of a pact JSON document into this model is treated
// as this package's responsibility (the core mock server consumes the
// resulting [Pact] as a read-only handle), but the matching-rule primitives
// themselves — regex, type, min/max, arrayContains, datetime, and so on —
// live in package matching, which is the pure function the mock server
// calls to compare an actual request against an expected [Interaction].
package pact
