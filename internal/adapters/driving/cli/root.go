// Package cli provides the docqa command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

var verbose bool

// Services wired by Configure.
var (
	settingsService driving.SettingsService
	sessionStore    driven.SessionStore
	newPipeline     PipelineFactory
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents",
	Long: `docqa extracts text from uploaded documents (plain text, PDF, Word,
images), indexes it with embeddings and answers questions from the most
relevant passages.

Scanned PDFs and images need tesseract; legacy .doc files need antiword.
Run 'docqa doctor' to check the local setup.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Dependencies are the services the commands run against.
type Dependencies struct {
	Settings driving.SettingsService
	Sessions driven.SessionStore
	Pipeline PipelineFactory
}

// Configure sets the services used by all commands.
func Configure(deps Dependencies) {
	settingsService = deps.Settings
	sessionStore = deps.Sessions
	newPipeline = deps.Pipeline
}

// SetVersion sets the version reported by 'docqa version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// buildPipeline loads the current settings, applies overrides from flags
// and creates a pipeline from them.
func buildPipeline(needLLM bool, overrides ...func(*domain.AppSettings)) (*Pipeline, error) {
	if settingsService == nil || newPipeline == nil {
		return nil, errors.New("pipeline not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(settings)
	}

	return newPipeline(settings, needLLM)
}

// commandContext returns the command's context, or Background when run
// without one (as in tests calling Execute).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// userError turns domain errors into messages that tell the user what to do.
func userError(err error) error {
	switch {
	case errors.Is(err, domain.ErrRetrievalUnavailable), errors.Is(err, domain.ErrNotFound):
		return errors.New("no documents ingested yet, run 'docqa ingest <files...>' first")
	case errors.Is(err, domain.ErrUploadLimit):
		return fmt.Errorf("%w (limits: %d files, %d MB each, %d MB total, %d characters of text)",
			err, domain.MaxUploadsPerBatch, domain.MaxFileBytes>>20, domain.MaxBatchBytes>>20, domain.MaxRawTextChars)
	default:
		return err
	}
}
