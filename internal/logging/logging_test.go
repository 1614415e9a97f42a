package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	logger, err := New(false, path)
	require.NoError(t, err)

	logger.Info("page loaded")
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "page loaded")
	assert.NotContains(t, string(data), "hidden at info level")
	assert.Contains(t, string(data), `"logger":"castbrowse"`)
}

func TestNewDebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, err := New(true, path)
	require.NoError(t, err)

	logger.Debug("scan finished")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scan finished")
}
