package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/services"
)

var (
	extractText string
	extractJSON bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Print the text extracted from documents",
	Long: `Runs the extractor chain over the files and prints the text each one
yields, without indexing anything. Useful to check OCR and format support.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractText, "text", "t", "", "free text to include")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output the batch as JSON")
	rootCmd.AddCommand(extractCmd)
}

type extractedDocument struct {
	SourceID string `json:"source_id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Method   string `json:"method"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
	Text     string `json:"text,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service not configured")
	}

	uploads, err := readUploads(args, extractText)
	if err != nil {
		return userError(err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// Extraction needs neither embeddings nor an LLM.
	ingest := services.NewIngestService(newChain(settings), nil, nil)
	batch, err := ingest.Extract(commandContext(cmd), uploads)
	if err != nil {
		return userError(err)
	}

	texts := make(map[string]string, len(batch.Texts))
	for _, t := range batch.Texts {
		texts[t.SourceID] = t.Text
	}

	docs := make([]extractedDocument, len(batch.Diagnostics))
	for i, d := range batch.Diagnostics {
		docs[i] = extractedDocument{
			SourceID: d.SourceID,
			Name:     d.Name,
			Kind:     d.Kind.String(),
			Method:   d.Method.String(),
			Degraded: d.Degraded,
			Reason:   d.Reason,
			Text:     texts[d.SourceID],
		}
	}

	if extractJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal batch: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	st := newOutputStyles(cmd.OutOrStdout())
	for i, doc := range docs {
		if i > 0 {
			cmd.Println()
		}
		cmd.Println(st.Title.Render(fmt.Sprintf("%s (%s)", doc.Name, doc.Kind)))
		if doc.Degraded {
			cmd.Println(st.Warning.Render("  " + doc.Reason))
			continue
		}
		cmd.Println(st.Muted.Render("  via " + doc.Method))
		cmd.Println(doc.Text)
	}
	return nil
}
