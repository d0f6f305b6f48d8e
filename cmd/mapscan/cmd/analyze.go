package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/mapscan/internal/pipeline"
	"github.com/MeKo-Tech/mapscan/internal/utils"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image]",
	Short: "Analyze a scanned map image",
	Long: `Run the full analysis pipeline against one map image: object
detection, text reading, coordinate parsing, spatial grouping, and segment
extraction. The result is printed as JSON and segment crops are written to
the segments directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("model-path", "", "override the detector model path")
	analyzeCmd.Flags().String("language", "", "text reading language (default from config)")
	analyzeCmd.Flags().Float64("confidence", 0, "minimum detector confidence (0 keeps the default)")
	analyzeCmd.Flags().Float64("margin", 0, "border band ratio for coordinate labels (0 keeps the default)")
	analyzeCmd.Flags().String("segments-dir", "", "directory for extracted segment images")
	analyzeCmd.Flags().Int("segment-size", 0, "fallback segment crop size in pixels")
	analyzeCmd.Flags().StringP("output", "o", "", "write the JSON result to a file instead of stdout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	if _, err := os.Stat(imagePath); err != nil {
		return fmt.Errorf("input image: %w", err)
	}
	if !utils.IsSupportedImage(imagePath) {
		return fmt.Errorf("unsupported image format: %s", imagePath)
	}

	orch, err := buildOrchestrator(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := orch.Close(); err != nil {
			slog.Warn("pipeline shutdown", "error", err)
		}
	}()

	start := time.Now()
	result, err := orch.Analyze(cmd.Context(), imagePath)
	if err != nil {
		return err
	}
	slog.Info("analysis finished",
		"image", imagePath,
		"coordinates", len(result.Coordinates),
		"segments", len(result.Segments),
		"elapsed", time.Since(start).String())

	return writeResult(cmd, result)
}

func buildOrchestrator(cmd *cobra.Command) (*pipeline.Orchestrator, error) {
	modelPath, _ := cmd.Flags().GetString("model-path")
	language, _ := cmd.Flags().GetString("language")
	confidence, _ := cmd.Flags().GetFloat64("confidence")
	margin, _ := cmd.Flags().GetFloat64("margin")
	segmentsDir, _ := cmd.Flags().GetString("segments-dir")
	segmentSize, _ := cmd.Flags().GetInt("segment-size")

	b := pipeline.NewBuilder().
		WithModelsDir(globalConfig.ModelsDir).
		WithDetectorModelPath(modelPath).
		WithConfidenceThreshold(globalConfig.Pipeline.Detector.ConfidenceThreshold).
		WithLanguage(globalConfig.Pipeline.OCR.Language).
		WithOCRMinConfidence(globalConfig.Pipeline.OCR.MinConfidence).
		WithPreprocess(globalConfig.Pipeline.OCR.Preprocess).
		WithMarginRatio(globalConfig.Pipeline.Border.MarginRatio).
		WithSegmentsDir(globalConfig.Segments.OutputDir).
		WithSegmentSize(globalConfig.Segments.Size).
		WithWorkers(globalConfig.Pipeline.Workers).
		WithCache(globalConfig.Cache.Enabled, globalConfig.Cache.MaxEntries,
			time.Duration(globalConfig.Cache.TTLSeconds)*time.Second)

	// Flags beat config file and environment.
	b.WithConfidenceThreshold(confidence).
		WithLanguage(language).
		WithMarginRatio(margin).
		WithSegmentsDir(segmentsDir).
		WithSegmentSize(segmentSize)

	return b.Build()
}

func writeResult(cmd *cobra.Command, result *pipeline.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(outputPath, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
