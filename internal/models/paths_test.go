package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetModelsDirExplicit(t *testing.T) {
	assert.Equal(t, "/opt/models", GetModelsDir("/opt/models"))
}

func TestGetModelsDirEnvOverride(t *testing.T) {
	t.Setenv(EnvModelsDir, "/env/models")
	assert.Equal(t, "/env/models", GetModelsDir(""))
}

func TestDetectorModelPath(t *testing.T) {
	p := DetectorModelPath("/opt/models")
	assert.Equal(t, filepath.Join("/opt/models", CartographicDetector), p)
}

func TestModelAvailable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CartographicDetector)
	assert.False(t, ModelAvailable(path))

	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o600))
	assert.True(t, ModelAvailable(path))

	assert.False(t, ModelAvailable(dir))
}
