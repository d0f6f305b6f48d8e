package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/mapscan/internal/coordparse"
	"github.com/MeKo-Tech/mapscan/internal/detector"
	"github.com/MeKo-Tech/mapscan/internal/ocr"
	"github.com/MeKo-Tech/mapscan/internal/segment"
	"github.com/MeKo-Tech/mapscan/internal/spatial"
	"github.com/MeKo-Tech/mapscan/internal/utils"
)

// minGroupMembers is the membership a coordinate group needs before it yields
// a segment region. Singleton groups are usually stray labels.
const minGroupMembers = 2

// process runs every analysis stage against one image and assembles the
// result. A load or detection failure aborts the job; text reading and
// segment extraction degrade per stage, so a sheet the text engine cannot
// read still completes with whatever the other stages produced.
func (o *Orchestrator) process(ctx context.Context, jobID, imagePath string) (*Result, error) {
	start := time.Now()

	img, _, err := utils.LoadImage(imagePath)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", jobID, err)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var objects []detector.DetectedObject
	err = o.caps.Metrics.timeStage("detect", func() error {
		var stageErr error
		objects, stageErr = o.caps.Detector.Detect(ctx, img)
		return stageErr
	})
	if err != nil {
		return nil, fmt.Errorf("job %s: detection: %w", jobID, err)
	}

	var fragments []ocr.Fragment
	o.caps.Metrics.time("read_text", func() {
		fragments = o.readText(ctx, img, objects)
	})

	// Coordinate parsing sees every fragment: the border pass keeps
	// low-confidence edge labels that the stored fragment list drops.
	var coords []coordparse.Coordinate
	o.caps.Metrics.time("parse_coordinates", func() {
		coords = o.parseCoordinates(width, height, fragments)
	})
	fragments = ocr.FilterConfident(fragments, o.cfg.OCR.MinConfidence)

	var groups []spatial.Group
	o.caps.Metrics.time("group", func() {
		groups = o.caps.Grouper.Group(coords)
	})

	var segments []segment.Segment
	var regions []Region
	o.caps.Metrics.time("extract_segments", func() {
		segments, regions = o.extractSegments(img, groups, jobID)
	})

	result := &Result{
		JobID:       jobID,
		ImagePath:   imagePath,
		ImageWidth:  width,
		ImageHeight: height,
		Objects:     objects,
		Fragments:   fragments,
		Coordinates: coords,
		Groups:      groups,
		Segments:    segments,
		Regions:     regions,
		ProcessedAt: start,
		DurationMS:  time.Since(start).Milliseconds(),
	}
	return result, nil
}

// readText reads detected text regions first, then the full image, and
// merges the fragments. Region reads are translated back into image-space
// so downstream centroids line up. Reader errors cost fragments, never the
// job: a sheet the engine cannot read yields an empty fragment list.
func (o *Orchestrator) readText(ctx context.Context, img image.Image, objects []detector.DetectedObject) []ocr.Fragment {
	var fragments []ocr.Fragment

	bounds := img.Bounds()
	for _, obj := range objects {
		if obj.ClassName != detector.ClassText {
			continue
		}
		crop := imaging.Crop(img, obj.Box.ToRect(bounds))
		regionFrags, err := o.caps.Reader.ReadText(ctx, crop)
		if err != nil {
			// The full-image pass still covers this area.
			o.caps.Logger.Warn("text region read failed",
				"class", obj.ClassName, "error", err)
			continue
		}
		for _, f := range regionFrags {
			fragments = append(fragments, translateFragment(f, obj.Box.MinX, obj.Box.MinY))
		}
	}

	source := img
	if o.cfg.PreprocessOCR {
		source = utils.PreprocessForOCR(img, o.cfg.OCR.Preprocess)
	}
	fullFrags, err := o.caps.Reader.ReadText(ctx, source)
	if err != nil {
		o.caps.Logger.Warn("full image read failed", "error", err)
		return fragments
	}
	return append(fragments, fullFrags...)
}

func translateFragment(f ocr.Fragment, dx, dy float64) ocr.Fragment {
	moved := make([]utils.Point, len(f.Polygon))
	for i, p := range f.Polygon {
		moved[i] = utils.Point{X: p.X + dx, Y: p.Y + dy}
	}
	f.Polygon = moved
	return f
}

// parseCoordinates combines the border label pass with a general pass over
// interior fragments. The border pass gets the unfiltered fragments; the
// confidence threshold applies to the interior pass only. Every coordinate
// gets a positional proxy from its source centroid; paired coordinates
// never use it, axis-only ones need it for grouping.
func (o *Orchestrator) parseCoordinates(width, height int, fragments []ocr.Fragment) []coordparse.Coordinate {
	coords := o.caps.Border.Extract(width, height, fragments)

	var parser coordparse.Parser
	for _, frag := range ocr.FilterConfident(fragments, o.cfg.OCR.MinConfidence) {
		c := frag.Centroid()
		if o.caps.Border.InBand(c.X, c.Y, width, height) {
			continue
		}
		coord, ok := parser.Parse(frag.Text, frag.Confidence)
		if !ok {
			continue
		}
		coord.ProxyLat, coord.ProxyLon = coordparse.ProxyFromPixel(c.X, c.Y, width, height)
		coords = append(coords, coord)
	}
	return coords
}

// extractSegments crops one region per group with at least minGroupMembers
// members, covering the group's geographic extent mapped onto the image.
// Each segment is paired with a Region tying the member coordinates to the
// written artifact.
func (o *Orchestrator) extractSegments(img image.Image, groups []spatial.Group, jobID string) ([]segment.Segment, []Region) {
	bounds := img.Bounds()
	mapper := spatial.NewMapper(bounds.Dx(), bounds.Dy())

	var segments []segment.Segment
	var regions []Region
	for _, g := range groups {
		if len(g.Members) < minGroupMembers {
			continue
		}
		seg := o.caps.Extractor.Extract(img, mapper.GroupBBox(g), jobID)
		segments = append(segments, seg)
		regions = append(regions, Region{
			Coordinates: g.Members,
			SegmentName: seg.Name,
			Box:         seg.Box,
		})
	}
	return segments, regions
}
