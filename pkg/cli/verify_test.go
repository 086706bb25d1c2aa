package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveInstanceIDPrefersExplicitID(t *testing.T) {
	id, err := resolveInstanceID(nil, "explicit-id", 9999)
	assert.NoError(t, err)
	assert.Equal(t, "explicit-id", id)
}

func TestResolveInstanceIDRequiresOneOf(t *testing.T) {
	_, err := resolveInstanceID(nil, "", 0)
	assert.True(t, errors.Is(err, ErrUsage))
}
