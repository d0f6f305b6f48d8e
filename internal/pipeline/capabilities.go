package pipeline

import (
	"errors"
	"log/slog"

	"github.com/MeKo-Tech/mapscan/internal/coordparse"
	"github.com/MeKo-Tech/mapscan/internal/detector"
	"github.com/MeKo-Tech/mapscan/internal/jobstore"
	"github.com/MeKo-Tech/mapscan/internal/ocr"
	"github.com/MeKo-Tech/mapscan/internal/resultcache"
	"github.com/MeKo-Tech/mapscan/internal/segment"
	"github.com/MeKo-Tech/mapscan/internal/spatial"
)

// Capabilities bundles every collaborator the orchestrator needs. All of
// them are injected at construction, so tests can swap any stage for a stub
// and no stage is ever selected mid-job.
type Capabilities struct {
	Detector  detector.Detector
	Reader    ocr.Reader
	Border    *coordparse.BorderExtractor
	Grouper   *spatial.Grouper
	Extractor *segment.Extractor
	Jobs      *jobstore.Store
	Cache     resultcache.Cache
	Metrics   *Metrics
	Logger    *slog.Logger
}

// Validate reports the first missing required capability. Grouper, Cache,
// Metrics, and Logger have usable zero alternatives and are filled in by
// normalize instead.
func (c *Capabilities) Validate() error {
	switch {
	case c.Detector == nil:
		return errors.New("pipeline: detector capability is required")
	case c.Reader == nil:
		return errors.New("pipeline: ocr reader capability is required")
	case c.Border == nil:
		return errors.New("pipeline: border extractor capability is required")
	case c.Extractor == nil:
		return errors.New("pipeline: segment extractor capability is required")
	case c.Jobs == nil:
		return errors.New("pipeline: job store capability is required")
	}
	return nil
}

func (c *Capabilities) normalize() {
	if c.Grouper == nil {
		c.Grouper = &spatial.Grouper{}
	}
	if c.Cache == nil {
		c.Cache = resultcache.Nop{}
	}
	if c.Metrics == nil {
		c.Metrics = NopMetrics()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
