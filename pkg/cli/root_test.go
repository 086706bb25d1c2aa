package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeForMismatch(t *testing.T) {
	err := fmt.Errorf("2 mismatches: %w", ErrMismatch)
	assert.Equal(t, 3, exitCodeFor(err))
}

func TestExitCodeForIO(t *testing.T) {
	err := fmt.Errorf("reading file: %w", ErrIO)
	assert.Equal(t, 2, exitCodeFor(err))
}

func TestExitCodeForUsage(t *testing.T) {
	err := fmt.Errorf("--file is required: %w", ErrUsage)
	assert.Equal(t, 1, exitCodeFor(err))
}

func TestExitCodeForUnclassifiedDefaultsToUsage(t *testing.T) {
	assert.Equal(t, 1, exitCodeFor(errors.New("boom")))
}

func TestExitCodeForNilIsSuccess(t *testing.T) {
	assert.Equal(t, 0, Execute(nil))
}
