package cli

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// isTerminal reports whether f is attached to a terminal.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// newProgress returns a progress callback for index builds. On a terminal
// it draws a bar on stderr; otherwise progress goes to the debug log.
// The returned finish func must be called once the build returns.
func newProgress(description string) (progress driving.ProgressFunc, finish func()) {
	if !isTerminal(os.Stderr) {
		return func(done, total int) {
			logger.Debug("%s: %d/%d chunks", description, done, total)
		}, func() {}
	}
	return progressBar(os.Stderr, description)
}

func progressBar(w io.Writer, description string) (driving.ProgressFunc, func()) {
	var bar *progressbar.ProgressBar

	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionClearOnFinish(),
			)
		}
		bar.Set(done) //nolint:errcheck
	}

	finish := func() {
		if bar != nil {
			bar.Finish() //nolint:errcheck
		}
	}

	return progress, finish
}
