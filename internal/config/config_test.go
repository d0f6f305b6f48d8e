package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.InDelta(t, 0.25, cfg.Pipeline.Detector.ConfidenceThreshold, 1e-9)
	assert.Equal(t, "eng", cfg.Pipeline.OCR.Language)
	assert.InDelta(t, 0.5, cfg.Pipeline.OCR.MinConfidence, 1e-9)
	assert.InDelta(t, 0.15, cfg.Pipeline.Border.MarginRatio, 1e-9)
	assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	cfg.Pipeline.Detector.ConfidenceThreshold = 1.5
	cfg.Pipeline.OCR.Language = ""
	cfg.Pipeline.Workers = 0
	cfg.Segments.Size = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "confidence_threshold")
	assert.Contains(t, err.Error(), "ocr.language")
	assert.Contains(t, err.Error(), "pipeline.workers")
	assert.Contains(t, err.Error(), "segments.size")
}

func TestValidateCacheOnlyWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.TTLSeconds = 0
	assert.NoError(t, cfg.Validate())

	cfg.Cache.Enabled = true
	assert.Error(t, cfg.Validate())
}

func TestValidateBorderRatio(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.Border.MarginRatio = 0.5
	assert.Error(t, cfg.Validate())
	cfg.Pipeline.Border.MarginRatio = 0.49
	assert.NoError(t, cfg.Validate())
}

func TestLoaderDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, "segments", cfg.Segments.OutputDir)
}

func TestLoaderReadsFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "mapscan.yaml")
	content := []byte("log_level: debug\npipeline:\n  workers: 8\n  ocr:\n    language: deu\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, "deu", cfg.Pipeline.OCR.Language)
	// Unset values keep their defaults.
	assert.InDelta(t, 0.25, cfg.Pipeline.Detector.ConfidenceThreshold, 1e-9)
}

func TestLoaderRejectsMissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := NewLoader().LoadWithFile("/nonexistent/mapscan.yaml")
	assert.Error(t, err)
}

func TestLoaderEnvironmentOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("MAPSCAN_LOG_LEVEL", "warn")
	t.Setenv("MAPSCAN_PIPELINE_WORKERS", "2")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
}

func TestLoaderRejectsInvalidFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "mapscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline:\n  workers: -3\n"), 0o600))

	_, err := NewLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	assert.Contains(t, paths, ".")
	assert.Contains(t, paths, "/etc/mapscan")
}
