// Package cli implements the pactmock command-line interface: start (boot
// the control service and block until shutdown), list, create, verify,
// shutdown-master, and shutdown. Each subcommand is a cobra.Command that
// either drives pkg/manager and pkg/control directly (start) or talks to a
// running control service over HTTP (the rest).
//
// Execute maps the returned error onto the process exit code: 0 success, 1
// usage, 2 I/O failure, 3 mismatch on verify.
package cli
