package manager

import "errors"

// ErrNotFound is used by callers (the control service, the CLI) to report
// a lookup or shutdown against an id/port that isn't registered; the
// ServerManager API itself reports this as a bool.
var ErrNotFound = errors.New("manager: no such mock server instance")
