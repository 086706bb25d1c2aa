package mockserver

import "errors"

var (
	// ErrAlreadyStarted is returned by Start when the instance is already
	// Running or has already been shut down.
	ErrAlreadyStarted = errors.New("mockserver: instance already started")
	// ErrBindFailed wraps a listener bind failure.
	ErrBindFailed = errors.New("mockserver: failed to bind listener")
)
