// Package pactresponse builds the wire HTTP response from a selected
// interaction: applying any generators attached to the response, and, for
// the no-match/mismatch path, rendering the diagnostic JSON body the
// consumer test is expected to fail against.
package pactresponse
