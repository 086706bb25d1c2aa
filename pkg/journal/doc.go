// Package journal implements the per-instance mismatch journal: an
// append-only record of every request an instance has handled, classified
// as matched, mismatched, or unexpected, plus the aggregate "all matched"
// predicate a consumer test relies on at teardown.
package journal
