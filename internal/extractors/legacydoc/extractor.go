// Package legacydoc extracts text from legacy binary Word (.doc) files
// with the antiword tool.
package legacydoc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// DefaultBinary is the antiword executable name.
const DefaultBinary = "antiword"

// ErrRunnerUnavailable is returned when no command runner is configured.
var ErrRunnerUnavailable = errors.New("command runner not configured")

// Extractor converts .doc files to text with antiword.
type Extractor struct {
	runner driven.CommandRunner
	binary string
}

// New creates a legacy Word extractor. An empty binary uses DefaultBinary.
func New(runner driven.CommandRunner, binary string) *Extractor {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Extractor{runner: runner, binary: binary}
}

// Method returns the extraction method.
func (e *Extractor) Method() domain.ExtractionMethod {
	return domain.MethodDOC
}

// Extract writes the document into a scoped temporary directory and runs
// antiword over it without line wrapping.
func (e *Extractor) Extract(ctx context.Context, doc *domain.SourceDocument) (string, error) {
	if doc == nil {
		return "", domain.ErrInvalidInput
	}
	if e.runner == nil {
		return "", ErrRunnerUnavailable
	}

	dir, err := os.MkdirTemp("", "docqa-doc-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "input.doc")
	if err := os.WriteFile(path, doc.RawBytes, 0o600); err != nil {
		return "", fmt.Errorf("write doc: %w", err)
	}

	out, err := e.runner.Run(ctx, e.binary, "-w", "0", path)
	if err != nil {
		return "", fmt.Errorf("antiword: %w", err)
	}
	return string(out), nil
}
