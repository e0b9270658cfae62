package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"merchmagic/internal/infra"
	"merchmagic/internal/providers/gemini"
	"merchmagic/internal/session"
)

// generatorFactory builds the generation client; tests swap it for a fake.
type generatorFactory func(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (session.Generator, error)

func defaultGenerator(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (session.Generator, error) {
	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		HTTPClient: &http.Client{},
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newRootCmd(factory generatorFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "mockup",
		Short:         "Generate product mockups from a logo",
		Long:          `mockup places a logo onto a product template with Gemini and refines the result with text edits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "Log generation attempts to stderr")

	root.AddCommand(newTemplatesCmd(), newSuggestionsCmd(), newGenerateCmd(factory))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	_ = godotenv.Load()
	if err := newRootCmd(defaultGenerator).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
