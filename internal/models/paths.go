// Package models resolves on-disk paths for detector model artifacts.
package models

import (
	"errors"
	"os"
	"path/filepath"
)

// Model filename constants to avoid typos and ensure consistency.
const (
	// CartographicDetector is the object detection model for map elements
	// (text labels, legends, scale bars, grid lines).
	CartographicDetector = "carto_det.onnx"
)

// DefaultModelsDir is the default models directory relative to the project root.
const DefaultModelsDir = "models"

// EnvModelsDir is the environment variable overriding the models directory.
const EnvModelsDir = "MAPSCAN_MODELS_DIR"

// findProjectRoot finds the project root by looking for go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.New("could not find project root (go.mod not found)")
}

// GetModelsDir returns the models directory path from various sources.
// Priority: 1. Explicit modelsDir parameter, 2. Environment variable, 3. Project root + default.
func GetModelsDir(modelsDir string) string {
	if modelsDir != "" {
		return modelsDir
	}
	if envDir := os.Getenv(EnvModelsDir); envDir != "" {
		return envDir
	}
	if projectRoot, err := findProjectRoot(); err == nil {
		return filepath.Join(projectRoot, DefaultModelsDir)
	}
	return DefaultModelsDir
}

// DetectorModelPath resolves the full path of the cartographic detector model.
func DetectorModelPath(modelsDir string) string {
	return filepath.Join(GetModelsDir(modelsDir), CartographicDetector)
}

// ModelAvailable reports whether the model file exists and is a regular file.
func ModelAvailable(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
