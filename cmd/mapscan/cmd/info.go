package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/mapscan/internal/config"
	"github.com/MeKo-Tech/mapscan/internal/models"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved configuration and model availability",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Models directory:  %s\n", globalConfig.ModelsDir)
		modelPath := models.DetectorModelPath(globalConfig.ModelsDir)
		fmt.Fprintf(out, "Detector model:    %s (available: %t)\n",
			modelPath, models.ModelAvailable(modelPath))
		fmt.Fprintf(out, "OCR language:      %s\n", globalConfig.Pipeline.OCR.Language)
		fmt.Fprintf(out, "Border margin:     %.2f\n", globalConfig.Pipeline.Border.MarginRatio)
		fmt.Fprintf(out, "Segments dir:      %s\n", globalConfig.Segments.OutputDir)
		fmt.Fprintf(out, "Workers:           %d\n", globalConfig.Pipeline.Workers)
		fmt.Fprintf(out, "Cache:             enabled=%t ttl=%ds\n",
			globalConfig.Cache.Enabled, globalConfig.Cache.TTLSeconds)

		if file := configLoader.GetConfigFileUsed(); file != "" {
			fmt.Fprintf(out, "Config file:       %s\n", file)
		} else {
			fmt.Fprintf(out, "Config file:       none (defaults + environment)\n")
		}
		fmt.Fprintf(out, "Config search:     %v\n", config.GetConfigSearchPaths())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
