package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MeKo-Tech/mapscan/internal/coordparse"
	"github.com/MeKo-Tech/mapscan/internal/detector"
	"github.com/MeKo-Tech/mapscan/internal/jobstore"
	"github.com/MeKo-Tech/mapscan/internal/ocr"
	"github.com/MeKo-Tech/mapscan/internal/resultcache"
	"github.com/MeKo-Tech/mapscan/internal/segment"
	"github.com/MeKo-Tech/mapscan/internal/spatial"
)

// Build assembles the production capabilities for the builder's
// configuration and starts an orchestrator on them.
func (b *Builder) Build() (*Orchestrator, error) {
	return b.BuildWith(slog.Default(), prometheus.DefaultRegisterer)
}

// BuildWith is Build with an explicit logger and metrics registerer.
func (b *Builder) BuildWith(logger *slog.Logger, reg prometheus.Registerer) (*Orchestrator, error) {
	cfg := b.cfg
	cfg.Detector.UpdateModelPath(cfg.ModelsDir)

	reader, err := ocr.NewTesseractReader(cfg.OCR)
	if err != nil {
		return nil, fmt.Errorf("pipeline: build ocr reader: %w", err)
	}

	store, err := segment.NewStore(cfg.SegmentsDir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: build segment store: %w", err)
	}

	jobs, err := jobstore.NewStore()
	if err != nil {
		return nil, fmt.Errorf("pipeline: build job store: %w", err)
	}

	var cache resultcache.Cache = resultcache.Nop{}
	if cfg.CacheEnabled {
		cache = resultcache.NewLRU(cfg.CacheMaxEntries, cfg.CacheTTL)
	}

	caps := Capabilities{
		Detector:  detector.Select(cfg.Detector),
		Reader:    reader,
		Border:    coordparse.NewBorderExtractor(cfg.MarginRatio, logger),
		Grouper:   &spatial.Grouper{},
		Extractor: segment.NewExtractor(store, cfg.SegmentSize, logger),
		Jobs:      jobs,
		Cache:     cache,
		Metrics:   NewMetrics(reg),
		Logger:    logger,
	}
	return NewOrchestrator(cfg, caps)
}
