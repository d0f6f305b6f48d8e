package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/MeKo-Tech/mapscan/internal/jobstore"
)

// ErrClosed is returned by Submit after the orchestrator has been shut down.
var ErrClosed = errors.New("pipeline: orchestrator closed")

type jobRequest struct {
	ctx       context.Context
	jobID     string
	imagePath string
}

// Orchestrator owns the worker pool that drives analysis jobs through their
// lifecycle. All collaborators are fixed at construction.
type Orchestrator struct {
	cfg  Config
	caps Capabilities

	jobs chan jobRequest
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewOrchestrator validates the capabilities, fills in optional ones, and
// starts the worker pool.
func NewOrchestrator(cfg Config, caps Capabilities) (*Orchestrator, error) {
	if err := caps.Validate(); err != nil {
		return nil, err
	}
	caps.normalize()
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}

	o := &Orchestrator{
		cfg:  cfg,
		caps: caps,
		jobs: make(chan jobRequest, cfg.Workers*4),
	}
	for range cfg.Workers {
		o.wg.Add(1)
		go o.worker()
	}
	return o, nil
}

// Submit registers a new job for the given image and queues it for
// processing. It returns the job ID immediately; progress is observed
// through Status and Result.
func (o *Orchestrator) Submit(ctx context.Context, imagePath string) (string, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return "", ErrClosed
	}
	o.mu.Unlock()

	jobID := uuid.NewString()
	if _, err := o.caps.Jobs.Create(jobID, imagePath); err != nil {
		return "", err
	}

	select {
	case o.jobs <- jobRequest{ctx: ctx, jobID: jobID, imagePath: imagePath}:
		return jobID, nil
	case <-ctx.Done():
		if _, err := o.caps.Jobs.Fail(jobID, ctx.Err().Error()); err != nil {
			o.caps.Logger.Error("failed to mark canceled job", "job_id", jobID, "error", err)
		}
		return "", ctx.Err()
	}
}

// Analyze runs one image through the pipeline synchronously, still tracked
// in the job store, and returns the finished result.
func (o *Orchestrator) Analyze(ctx context.Context, imagePath string) (*Result, error) {
	jobID := uuid.NewString()
	if _, err := o.caps.Jobs.Create(jobID, imagePath); err != nil {
		return nil, err
	}
	o.runJob(jobRequest{ctx: ctx, jobID: jobID, imagePath: imagePath})

	job, err := o.caps.Jobs.Get(jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == jobstore.StatusFailed {
		return nil, fmt.Errorf("pipeline: job %s failed: %s", jobID, job.Error)
	}
	return DeserializeResult(job.ResultJSON)
}

// Status returns the current job record.
func (o *Orchestrator) Status(jobID string) (jobstore.Job, error) {
	return o.caps.Jobs.Get(jobID)
}

// Result returns the job record and, when the job completed and its stored
// result is decodable, the decoded result. A result that fails to decode is
// reported as absent; the job's terminal status stays authoritative.
func (o *Orchestrator) Result(jobID string) (jobstore.Job, *Result, error) {
	if cached, ok := o.caps.Cache.Get(jobID); ok {
		if result, err := DeserializeResult(cached); err == nil {
			if job, err := o.caps.Jobs.Get(jobID); err == nil {
				return job, result, nil
			}
		}
	}

	job, err := o.caps.Jobs.Get(jobID)
	if err != nil {
		return jobstore.Job{}, nil, err
	}
	if job.Status != jobstore.StatusCompleted || job.ResultJSON == "" {
		return job, nil, nil
	}

	result, err := DeserializeResult(job.ResultJSON)
	if err != nil {
		o.caps.Logger.Warn("stored result not decodable", "job_id", jobID, "error", err)
		return job, nil, nil
	}
	o.caps.Cache.Put(jobID, job.ResultJSON)
	return job, result, nil
}

// Close drains the queue, stops the workers, and releases the detection and
// reading backends.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	o.mu.Unlock()

	close(o.jobs)
	o.wg.Wait()

	var firstErr error
	if err := o.caps.Detector.Close(); err != nil {
		firstErr = fmt.Errorf("pipeline: close detector: %w", err)
	}
	if err := o.caps.Reader.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("pipeline: close reader: %w", err)
	}
	return firstErr
}

// Info returns key pipeline properties for diagnostics.
func (o *Orchestrator) Info() map[string]interface{} {
	return map[string]interface{}{
		"models_dir":     o.cfg.ModelsDir,
		"detector":       o.caps.Detector.Name(),
		"ocr_language":   o.cfg.OCR.Language,
		"margin_ratio":   o.cfg.MarginRatio,
		"segment_size":   o.cfg.SegmentSize,
		"segments_dir":   o.cfg.SegmentsDir,
		"workers":        o.cfg.Workers,
		"cache_enabled":  o.cfg.CacheEnabled,
		"cached_results": o.caps.Cache.Len(),
	}
}

func (o *Orchestrator) worker() {
	defer o.wg.Done()
	for req := range o.jobs {
		o.runJob(req)
	}
}

// runJob moves one job from processing to a terminal state. Terminal
// transitions go through the store, which guarantees a completed or failed
// job can never change again.
func (o *Orchestrator) runJob(req jobRequest) {
	logger := o.caps.Logger.With("job_id", req.jobID)

	result, err := o.process(req.ctx, req.jobID, req.imagePath)
	if err != nil {
		o.failJob(req.jobID, err, logger)
		return
	}

	serialized, err := result.Serialize()
	if err != nil {
		o.failJob(req.jobID, err, logger)
		return
	}

	if _, err := o.caps.Jobs.Complete(req.jobID, serialized); err != nil {
		logger.Error("job completion rejected", "error", err)
		return
	}
	o.caps.Cache.Put(req.jobID, serialized)
	o.caps.Metrics.JobCompleted()
	logger.Info("job completed",
		"objects", len(result.Objects),
		"coordinates", len(result.Coordinates),
		"groups", len(result.Groups),
		"segments", len(result.Segments),
		"duration_ms", result.DurationMS)
}

func (o *Orchestrator) failJob(jobID string, cause error, logger *slog.Logger) {
	if _, err := o.caps.Jobs.Fail(jobID, cause.Error()); err != nil {
		logger.Error("job failure could not be recorded", "error", err)
		return
	}
	o.caps.Metrics.JobFailed()
	logger.Error("job failed", "error", cause)
}
