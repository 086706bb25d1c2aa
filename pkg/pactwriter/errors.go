package pactwriter

import "errors"

// ErrIncompatibleMerge is returned when the existing pact file at the
// target path names a different consumer or provider than the pact being
// written.
var ErrIncompatibleMerge = errors.New("pactwriter: existing pact file has a different consumer/provider")
