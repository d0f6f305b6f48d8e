// Package config loads and validates the application configuration from
// files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/mapscan/internal/coordparse"
	"github.com/MeKo-Tech/mapscan/internal/detector"
	"github.com/MeKo-Tech/mapscan/internal/models"
	"github.com/MeKo-Tech/mapscan/internal/ocr"
	"github.com/MeKo-Tech/mapscan/internal/resultcache"
	"github.com/MeKo-Tech/mapscan/internal/segment"
)

// DefaultConfig returns the configuration used when no file, environment
// variable, or flag overrides a value. Component defaults come from the
// packages that own them.
func DefaultConfig() *Config {
	det := detector.DefaultConfig()
	reader := ocr.DefaultConfig()

	return &Config{
		ModelsDir: models.GetModelsDir(""),
		LogLevel:  "info",
		Verbose:   false,
		Pipeline: PipelineConfig{
			Detector: DetectorConfig{
				ConfidenceThreshold: det.ConfidenceThreshold,
				NumThreads:          det.NumThreads,
				MaxImageSize:        det.MaxImageSize,
			},
			OCR: OCRConfig{
				Language:      reader.Language,
				MinConfidence: reader.MinConfidence,
				Preprocess:    true,
			},
			Border: BorderConfig{
				MarginRatio: coordparse.DefaultMarginRatio,
			},
			Workers: 4,
		},
		Segments: SegmentsConfig{
			OutputDir: "segments",
			Size:      segment.DefaultSegmentSize,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: resultcache.DefaultMaxEntries,
			TTLSeconds: int(resultcache.DefaultTTL.Seconds()),
		},
	}
}

// Validate checks the configuration for values that would misbehave at
// runtime and collects every violation into one error.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level must be one of debug, info, warn, error (got %q)", c.LogLevel))
	}

	if t := c.Pipeline.Detector.ConfidenceThreshold; t < 0 || t > 1 {
		problems = append(problems, fmt.Sprintf("pipeline.detector.confidence_threshold must be in [0,1] (got %v)", t))
	}
	if c.Pipeline.Detector.MaxImageSize <= 0 {
		problems = append(problems, "pipeline.detector.max_image_size must be positive")
	}
	if c.Pipeline.Detector.NumThreads < 0 {
		problems = append(problems, "pipeline.detector.num_threads must not be negative")
	}

	if c.Pipeline.OCR.Language == "" {
		problems = append(problems, "pipeline.ocr.language must not be empty")
	}
	if m := c.Pipeline.OCR.MinConfidence; m < 0 || m > 1 {
		problems = append(problems, fmt.Sprintf("pipeline.ocr.min_confidence must be in [0,1] (got %v)", m))
	}

	if r := c.Pipeline.Border.MarginRatio; r <= 0 || r >= 0.5 {
		problems = append(problems, fmt.Sprintf("pipeline.border.margin_ratio must be in (0,0.5) (got %v)", r))
	}
	if c.Pipeline.Workers <= 0 {
		problems = append(problems, "pipeline.workers must be positive")
	}

	if c.Segments.OutputDir == "" {
		problems = append(problems, "segments.output_dir must not be empty")
	}
	if c.Segments.Size <= 0 {
		problems = append(problems, "segments.size must be positive")
	}

	if c.Cache.Enabled {
		if c.Cache.MaxEntries <= 0 {
			problems = append(problems, "cache.max_entries must be positive when the cache is enabled")
		}
		if c.Cache.TTLSeconds <= 0 {
			problems = append(problems, "cache.ttl_seconds must be positive when the cache is enabled")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
