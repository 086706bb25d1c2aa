// Package api defines the wire-format request/response DTOs for the
// control service, kept separate from pkg/control's HTTP routing so the
// shapes can be imported by CLI/client code without pulling in the server
// implementation.
package api
