package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "controlPort: 9000\nserverKey: secret\nlogFile: false\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.ControlPort)
	assert.Equal(t, "secret", cfg.ServerKey)
	assert.False(t, BoolOr(cfg.LogFile, true))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestBoolOrFallback(t *testing.T) {
	assert.True(t, BoolOr(nil, true))
	f := false
	assert.False(t, BoolOr(&f, true))
}
