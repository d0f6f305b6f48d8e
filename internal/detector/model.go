package detector

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"github.com/MeKo-Tech/mapscan/internal/onnx"
	"github.com/MeKo-Tech/mapscan/internal/utils"
	onnxruntime "github.com/yalue/onnxruntime_go"
)

// ModelDetector performs cartographic element detection using ONNX Runtime.
// The model output is expected as rows of (x1, y1, x2, y2, confidence, class)
// in input-tensor pixel coordinates.
type ModelDetector struct {
	config     Config
	session    *onnxruntime.DynamicAdvancedSession
	inputInfo  onnxruntime.InputOutputInfo
	outputInfo onnxruntime.InputOutputInfo
	mu         sync.RWMutex
}

// NewModelDetector creates a detector backed by the configured ONNX model.
func NewModelDetector(config Config) (*ModelDetector, error) {
	if config.ModelPath == "" {
		return nil, errors.New("detector model path is empty")
	}
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("detector model not found: %s", config.ModelPath)
	}

	slog.Debug("Initializing model detector",
		"model_path", config.ModelPath,
		"confidence_threshold", config.ConfidenceThreshold,
		"max_image_size", config.MaxImageSize)

	if err := onnx.EnsureEnvironment(); err != nil {
		return nil, err
	}

	inputs, outputs, err := onnxruntime.GetInputOutputInfo(config.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect model: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, errors.New("model has no usable input/output")
	}

	sessionOptions, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer func() {
		if err := sessionOptions.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to destroy session options: %v\n", err)
		}
	}()

	if config.NumThreads > 0 {
		if err := sessionOptions.SetIntraOpNumThreads(config.NumThreads); err != nil {
			return nil, fmt.Errorf("failed to set thread count: %w", err)
		}
	}

	session, err := onnxruntime.NewDynamicAdvancedSession(config.ModelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, sessionOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	slog.Debug("Model detector initialized")
	return &ModelDetector{
		config:     config,
		session:    session,
		inputInfo:  inputs[0],
		outputInfo: outputs[0],
	}, nil
}

// Name identifies the detector variant.
func (d *ModelDetector) Name() string { return "model" }

// Close releases the ONNX session.
func (d *ModelDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session != nil {
		if err := d.session.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to destroy detector session: %v\n", err)
		}
		d.session = nil
	}
	return nil
}

// Detect runs model inference and returns detections in original image pixels.
func (d *ModelDetector) Detect(ctx context.Context, img image.Image) ([]DetectedObject, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()

	constraints := utils.ImageConstraints{
		MaxWidth:  d.config.MaxImageSize,
		MaxHeight: d.config.MaxImageSize,
		MinWidth:  32,
		MinHeight: 32,
	}
	resized, err := utils.ResizeImage(img, constraints)
	if err != nil {
		return nil, fmt.Errorf("failed to resize image: %w", err)
	}

	tensorData, width, height, err := utils.NormalizeImage(resized)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize image: %w", err)
	}
	tensor, err := onnx.NewImageTensor(tensorData, 3, height, width)
	if err != nil {
		return nil, fmt.Errorf("failed to create tensor: %w", err)
	}

	rows, err := d.runInference(tensor)
	if err != nil {
		return nil, err
	}

	scaleX := float64(origW) / float64(width)
	scaleY := float64(origH) / float64(height)
	return d.decodeRows(rows, scaleX, scaleY, origW, origH), nil
}

// runInference executes the session and returns the flat output data.
func (d *ModelDetector) runInference(tensor onnx.Tensor) ([]float32, error) {
	if err := onnx.VerifyImageTensor(tensor); err != nil {
		return nil, fmt.Errorf("invalid tensor: %w", err)
	}

	d.mu.RLock()
	session := d.session
	d.mu.RUnlock()
	if session == nil {
		return nil, errors.New("detector session is nil")
	}

	inputTensor, err := onnxruntime.NewTensor(onnxruntime.NewShape(tensor.Shape...), tensor.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer func() {
		if err := inputTensor.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying input tensor: %v\n", err)
		}
	}()

	outputs := []onnxruntime.Value{nil}
	if err := session.Run([]onnxruntime.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	outputTensor := outputs[0]
	defer func() {
		if err := outputTensor.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying output tensor: %v\n", err)
		}
	}()

	floatTensor, ok := outputTensor.(*onnxruntime.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("expected float32 tensor, got %T", outputTensor)
	}

	data := floatTensor.GetData()
	out := make([]float32, len(data))
	copy(out, data)
	return out, nil
}

// decodeRows converts raw (x1,y1,x2,y2,conf,class) rows to detections,
// scaled back to original image coordinates and clamped to bounds.
func (d *ModelDetector) decodeRows(rows []float32, scaleX, scaleY float64, width, height int) []DetectedObject {
	const rowLen = 6
	objects := make([]DetectedObject, 0, len(rows)/rowLen)
	for i := 0; i+rowLen <= len(rows); i += rowLen {
		conf := float64(rows[i+4])
		if conf < d.config.ConfidenceThreshold {
			continue
		}
		x1 := utils.ClampFloat(float64(rows[i])*scaleX, 0, float64(width))
		y1 := utils.ClampFloat(float64(rows[i+1])*scaleY, 0, float64(height))
		x2 := utils.ClampFloat(float64(rows[i+2])*scaleX, 0, float64(width))
		y2 := utils.ClampFloat(float64(rows[i+3])*scaleY, 0, float64(height))
		if x2 <= x1 || y2 <= y1 {
			continue
		}
		objects = append(objects, DetectedObject{
			Box:        utils.NewBox(x1, y1, x2, y2),
			ClassName:  ClassNameForIndex(int(rows[i+5])),
			Confidence: conf,
		})
	}
	return objects
}
