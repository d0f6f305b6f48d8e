package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MeKo-Tech/mapscan/internal/coordparse"
	"github.com/MeKo-Tech/mapscan/internal/detector"
	"github.com/MeKo-Tech/mapscan/internal/ocr"
	"github.com/MeKo-Tech/mapscan/internal/segment"
	"github.com/MeKo-Tech/mapscan/internal/spatial"
	"github.com/MeKo-Tech/mapscan/internal/utils"
)

// Region ties a qualifying coordinate group to the segment artifact
// extracted for it and the pixel box the crop covered.
type Region struct {
	Coordinates []coordparse.Coordinate `json:"coordinates"`
	SegmentName string                  `json:"segment_name"`
	Box         utils.Box               `json:"box"`
}

// Result is the complete outcome of one map analysis job. It is stored
// serialized on the job record and in the result cache.
type Result struct {
	JobID       string                    `json:"job_id"`
	ImagePath   string                    `json:"image_path"`
	ImageWidth  int                       `json:"image_width"`
	ImageHeight int                       `json:"image_height"`
	Objects     []detector.DetectedObject `json:"objects"`
	Fragments   []ocr.Fragment            `json:"fragments"`
	Coordinates []coordparse.Coordinate   `json:"coordinates"`
	Groups      []spatial.Group           `json:"groups"`
	Segments    []segment.Segment         `json:"segments"`
	Regions     []Region                  `json:"regions"`
	ProcessedAt time.Time                 `json:"processed_at"`
	DurationMS  int64                     `json:"duration_ms"`
}

// Serialize encodes the result as JSON for storage.
func (r *Result) Serialize() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("serialize result for job %s: %w", r.JobID, err)
	}
	return string(data), nil
}

// DeserializeResult decodes a stored result. Callers treat a decoding
// failure as the result being unavailable, not as a job failure: the job's
// terminal status stays authoritative.
func DeserializeResult(data string) (*Result, error) {
	var r Result
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("deserialize result: %w", err)
	}
	return &r, nil
}

// Validate checks internal consistency of a decoded result.
func (r *Result) Validate() error {
	if r.JobID == "" {
		return fmt.Errorf("result missing job id")
	}
	if r.ImageWidth <= 0 || r.ImageHeight <= 0 {
		return fmt.Errorf("result for job %s has invalid image dimensions %dx%d",
			r.JobID, r.ImageWidth, r.ImageHeight)
	}
	for i, obj := range r.Objects {
		if err := obj.Validate(r.ImageWidth, r.ImageHeight); err != nil {
			return fmt.Errorf("result object %d: %w", i, err)
		}
	}
	return nil
}
