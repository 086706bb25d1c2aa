// Package matching implements request matching: comparing an actual HTTP
// request against the ordered list of interactions expected by a pact and
// classifying the best candidate as a full match, a method+path match with
// a mismatch elsewhere, or entirely unexpected.
//
// Matching is pure and deterministic: given the same interaction list and
// the same actual request, MatchRequest always returns the same
// classification and the same selected index: the lowest-indexed full
// match, or else the partial match with the fewest mismatches, ties going
// to the lowest index. Nothing here mutates the interactions it is given
// or performs I/O; the caller (package mockserver) journals the result.
package matching
