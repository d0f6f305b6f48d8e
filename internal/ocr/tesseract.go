package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"sync"

	"github.com/MeKo-Tech/mapscan/internal/utils"
	"github.com/otiai10/gosseract/v2"
)

// TesseractReader recognizes text using the Tesseract engine via gosseract.
// A mutex serializes access: gosseract clients are not safe for concurrent
// calls, and a single long-lived client avoids per-call engine startup.
type TesseractReader struct {
	config Config
	client *gosseract.Client
	mu     sync.Mutex
}

// NewTesseractReader creates a reader with a configured Tesseract client.
func NewTesseractReader(config Config) (*TesseractReader, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(config.Language); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	slog.Debug("Tesseract reader initialized", "language", config.Language)
	return &TesseractReader{config: config, client: client}, nil
}

// Close releases the Tesseract client.
func (r *TesseractReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

// ReadText recognizes word-level fragments in the image.
func (r *TesseractReader) ReadText(ctx context.Context, img image.Image) ([]Fragment, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil, errors.New("OCR reader is closed")
	}

	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set OCR image: %w", err)
	}

	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	fragments := make([]Fragment, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		fragments = append(fragments, Fragment{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Polygon: []utils.Point{
				{X: float64(box.Box.Min.X), Y: float64(box.Box.Min.Y)},
				{X: float64(box.Box.Max.X), Y: float64(box.Box.Min.Y)},
				{X: float64(box.Box.Max.X), Y: float64(box.Box.Max.Y)},
				{X: float64(box.Box.Min.X), Y: float64(box.Box.Max.Y)},
			},
		})
	}
	return fragments, nil
}
