// Command aquabov runs cattle analyses and chat from the terminal against the
// configured classifier and Gemini backends.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"aquabov-backend/internal/bootstrap"
	"aquabov-backend/internal/shared/config"
	"aquabov-backend/internal/shared/telemetry"
)

var (
	timeout       time.Duration
	classifierURL string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:           "aquabov",
	Short:         "Cattle breed analysis and advisory tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			telemetry.SetOutput(io.Discard)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().StringVar(&classifierURL, "classifier-url", "", "Classification backend base URL (default: CLASSIFIER_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write structured logs to stdout")

	rootCmd.AddCommand(analyzeCmd, chatCmd, faqCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildApp wires the core services without a database or image archive.
func buildApp(ctx context.Context) (*bootstrap.App, error) {
	cfg := config.Load()
	if classifierURL != "" {
		cfg.ClassifierURL = classifierURL
	}
	return bootstrap.BuildWithOptions(ctx, cfg, bootstrap.Options{SkipPersistence: true})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
