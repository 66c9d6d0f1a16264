package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Classify a cattle image and print the merged prediction as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	detected := mimetype.Detect(data)
	if !detected.Is("image/jpeg") && !detected.Is("image/png") {
		return fmt.Errorf("unsupported image type %s: only JPEG and PNG are supported", detected.String())
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	mimeType := "image/png"
	if detected.Is("image/jpeg") {
		mimeType = "image/jpeg"
	}
	res, err := app.PredictionsService.AnalyzeImage(ctx, data, mimeType)
	if err != nil {
		return fmt.Errorf("analysis failed, retry: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), res)
}
