// Package command runs external conversion and OCR tools.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.CommandRunner = (*Runner)(nil)

// ErrToolNotFound is returned when an external tool is not on PATH.
var ErrToolNotFound = errors.New("external tool not found")

// Runner executes commands with os/exec.
type Runner struct{}

// NewRunner creates a new command runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes name with args and returns its standard output.
// On failure the error includes the tail of standard error.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 200 {
			msg = msg[len(msg)-200:]
		}
		if msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

// CheckAvailable reports whether each named tool is on PATH.
func CheckAvailable(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrToolNotFound, strings.Join(missing, ", "))
	}
	return nil
}

// InstallInstructions returns how to install the external tools.
func InstallInstructions() string {
	return `OCR and legacy document support use external tools:
  tesseract  (images, scanned PDFs)
  pdftoppm   (scanned PDFs, part of poppler)
  antiword   (legacy .doc files)

Install with:
  macOS:          brew install tesseract poppler antiword
  Ubuntu/Debian:  apt install tesseract-ocr poppler-utils antiword
  Fedora:         dnf install tesseract poppler-utils antiword`
}
