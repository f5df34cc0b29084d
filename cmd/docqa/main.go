// Command docqa answers questions about uploaded documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; DOCQA_* variables may also come from the shell.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	dir, err := file.DefaultDir()
	if err != nil {
		return err
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return fmt.Errorf("opening prompts: %w", err)
	}

	store, err := sqlite.NewStore(dir)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer store.Close()

	cli.SetVersion(version)
	cli.Configure(cli.Dependencies{
		Settings: services.NewSettingsService(configStore, ai.NewConfigValidator(),
			services.WithEnvPrefix(services.DefaultEnvPrefix)),
		Sessions: store.SessionStore(),
		Pipeline: cli.NewPipelineFactory(prompts),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx)
}
