// Package mockserver implements a single mock server instance: an HTTP(S)
// listener bound to a port, holding one pact and a mismatch journal, whose
// handler runs every incoming request through the matching engine and the
// response builder and records the outcome.
package mockserver
