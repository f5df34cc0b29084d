package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var ingestText string

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Extract and index documents",
	Long: `Extracts text from up to five files (plain text, PDF, DOCX, DOC, PNG,
JPEG) and builds a new index from it, replacing the previous session.

Documents that cannot be extracted are reported and skipped; the rest of the
batch is still indexed. If the index cannot be built, the previous session is
kept.

Examples:
  docqa ingest report.pdf notes.txt
  docqa ingest --text "Paris is the capital of France."`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestText, "text", "t", "", "free text to index alongside the files")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if sessionStore == nil {
		return errors.New("session store not configured")
	}

	uploads, err := readUploads(args, ingestText)
	if err != nil {
		return userError(err)
	}

	p, err := buildPipeline(false)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx := commandContext(cmd)

	batch, err := p.Ingest.Extract(ctx, uploads)
	if err != nil {
		return userError(err)
	}
	printDiagnostics(cmd, batch)

	progress, finish := newProgress("Indexing")
	idx, err := p.Ingest.BuildIndex(ctx, batch.Texts, progress)
	finish()
	if err != nil {
		return fmt.Errorf("building index (previous session kept): %w", err)
	}

	if err := sessionStore.Save(ctx, batch); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	st := newOutputStyles(cmd.OutOrStdout())
	cmd.Println(st.Success.Render(fmt.Sprintf("Indexed %d chunks from %d of %d documents.",
		idx.Len(), len(batch.Diagnostics)-batch.DegradedCount(), len(batch.Diagnostics))))
	return nil
}

// readUploads reads each file and appends text as a raw text entry.
func readUploads(paths []string, text string) ([]domain.Upload, error) {
	if len(paths) == 0 && text == "" {
		return nil, fmt.Errorf("%w: provide at least one file or --text", domain.ErrInvalidInput)
	}

	uploads := make([]domain.Upload, 0, len(paths)+1)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
		}
		if info.Size() > domain.MaxFileBytes {
			return nil, fmt.Errorf("%w: %s is %d bytes", domain.ErrUploadLimit, path, info.Size())
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		uploads = append(uploads, domain.Upload{
			Content:      content,
			DeclaredType: declaredType(path),
			Name:         filepath.Base(path),
		})
	}

	if text != "" {
		uploads = append(uploads, domain.NewRawText(text))
	}

	return uploads, nil
}

// declaredType guesses the media type from the file extension, without parameters.
func declaredType(path string) string {
	t := mime.TypeByExtension(filepath.Ext(path))
	if t == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mediaType
}

func printDiagnostics(cmd *cobra.Command, batch *domain.ExtractionBatch) {
	st := newOutputStyles(cmd.OutOrStdout())
	for _, d := range batch.Diagnostics {
		if d.Degraded {
			cmd.Println(st.Warning.Render(fmt.Sprintf("  ! %s (%s): %s", d.Name, d.Kind, d.Reason)))
			continue
		}
		cmd.Printf("  - %s (%s) %s\n", d.Name, d.Kind, st.Muted.Render("via "+d.Method.String()))
	}
}
