package cli

import "errors"

// Sentinels Execute inspects via errors.Is to choose the process exit
// code. Subcommands produce these with fmt.Errorf("...: %w", ErrX) to keep
// a descriptive message while staying classifiable.
var (
	ErrUsage    = errors.New("usage error")
	ErrIO       = errors.New("I/O failure")
	ErrMismatch = errors.New("verification mismatch")
)
