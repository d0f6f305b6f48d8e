// Package pipeline orchestrates the map analysis stages: object detection,
// text reading, coordinate parsing, spatial grouping, and segment extraction,
// with asynchronous job tracking and result caching.
package pipeline

import (
	"time"

	"github.com/MeKo-Tech/mapscan/internal/coordparse"
	"github.com/MeKo-Tech/mapscan/internal/detector"
	"github.com/MeKo-Tech/mapscan/internal/models"
	"github.com/MeKo-Tech/mapscan/internal/ocr"
	"github.com/MeKo-Tech/mapscan/internal/resultcache"
	"github.com/MeKo-Tech/mapscan/internal/segment"
)

// Config holds configuration for the analysis pipeline and its components.
type Config struct {
	ModelsDir     string
	Detector      detector.Config
	OCR           ocr.Config
	PreprocessOCR bool
	MarginRatio   float64
	SegmentSize   int
	SegmentsDir   string
	Workers       int

	CacheEnabled    bool
	CacheMaxEntries int
	CacheTTL        time.Duration
}

// DefaultConfig returns a pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		ModelsDir:       models.GetModelsDir(""),
		Detector:        detector.DefaultConfig(),
		OCR:             ocr.DefaultConfig(),
		PreprocessOCR:   true,
		MarginRatio:     coordparse.DefaultMarginRatio,
		SegmentSize:     segment.DefaultSegmentSize,
		SegmentsDir:     "segments",
		Workers:         4,
		CacheEnabled:    true,
		CacheMaxEntries: resultcache.DefaultMaxEntries,
		CacheTTL:        resultcache.DefaultTTL,
	}
}

// Builder constructs an Orchestrator with fluent configuration.
type Builder struct {
	cfg Config
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithModelsDir sets the models directory and updates component model paths.
func (b *Builder) WithModelsDir(dir string) *Builder {
	if dir != "" {
		b.cfg.ModelsDir = dir
	}
	b.cfg.Detector.UpdateModelPath(b.cfg.ModelsDir)
	return b
}

// WithDetectorModelPath overrides the detector model path directly.
func (b *Builder) WithDetectorModelPath(path string) *Builder {
	if path != "" {
		b.cfg.Detector.ModelPath = path
	}
	return b
}

// WithConfidenceThreshold sets the minimum detector confidence.
func (b *Builder) WithConfidenceThreshold(t float64) *Builder {
	if t > 0 {
		b.cfg.Detector.ConfidenceThreshold = t
	}
	return b
}

// WithLanguage sets the text reading language.
func (b *Builder) WithLanguage(lang string) *Builder {
	if lang != "" {
		b.cfg.OCR.Language = lang
	}
	return b
}

// WithOCRMinConfidence sets the minimum confidence for kept text fragments.
func (b *Builder) WithOCRMinConfidence(min float64) *Builder {
	if min > 0 {
		b.cfg.OCR.MinConfidence = min
	}
	return b
}

// WithPreprocess toggles image preprocessing ahead of the full-image text
// pass.
func (b *Builder) WithPreprocess(enabled bool) *Builder {
	b.cfg.PreprocessOCR = enabled
	return b
}

// WithMarginRatio sets the border band used for coordinate label extraction.
func (b *Builder) WithMarginRatio(r float64) *Builder {
	if r > 0 && r < 0.5 {
		b.cfg.MarginRatio = r
	}
	return b
}

// WithSegmentsDir sets the directory segment artifacts are written into.
func (b *Builder) WithSegmentsDir(dir string) *Builder {
	if dir != "" {
		b.cfg.SegmentsDir = dir
	}
	return b
}

// WithSegmentSize sets the side length of the fallback crop used when a
// group's extent does not map onto a usable region.
func (b *Builder) WithSegmentSize(size int) *Builder {
	if size > 0 {
		b.cfg.SegmentSize = size
	}
	return b
}

// WithWorkers sets the number of concurrent job workers.
func (b *Builder) WithWorkers(n int) *Builder {
	if n > 0 {
		b.cfg.Workers = n
	}
	return b
}

// WithCache configures the result cache; maxEntries <= 0 or ttl <= 0 keep
// the defaults, and enabled=false disables caching entirely.
func (b *Builder) WithCache(enabled bool, maxEntries int, ttl time.Duration) *Builder {
	b.cfg.CacheEnabled = enabled
	if maxEntries > 0 {
		b.cfg.CacheMaxEntries = maxEntries
	}
	if ttl > 0 {
		b.cfg.CacheTTL = ttl
	}
	return b
}

// Config returns a copy of the builder's current configuration.
func (b *Builder) Config() Config { return b.cfg }
