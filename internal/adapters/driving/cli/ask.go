package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the ingested documents",
	Long: `Retrieves the passages most similar to the question from the current
session and asks the configured LLM to answer from them.

Run 'docqa ingest' first to create a session.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve (0 = use settings)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// askSource is one retrieved passage in JSON output.
type askSource struct {
	SourceID string  `json:"source_id"`
	Name     string  `json:"name"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

type askOutput struct {
	Answer  string      `json:"answer"`
	Sources []askSource `json:"sources"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	if strings.TrimSpace(question) == "" {
		return errors.New("question must not be empty")
	}
	if sessionStore == nil {
		return errors.New("session store not configured")
	}

	ctx := commandContext(cmd)

	batch, err := sessionStore.Load(ctx)
	if err != nil {
		return userError(err)
	}

	p, err := buildPipeline(true, func(s *domain.AppSettings) {
		if askTopK > 0 {
			s.Retrieval.TopK = askTopK
		}
	})
	if err != nil {
		return err
	}
	defer p.Close()

	// The session stores extracted text, so the index is rebuilt with the
	// current embedding settings.
	progress, finish := newProgress("Indexing")
	idx, err := p.Ingest.BuildIndex(ctx, batch.Texts, progress)
	finish()
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	defer idx.Close()

	answer, err := p.Answer.Answer(ctx, question, idx)
	if err != nil {
		return userError(err)
	}

	output := toAskOutput(answer, batch)
	if askJSON {
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, output)
	return nil
}

func toAskOutput(answer *domain.Answer, batch *domain.ExtractionBatch) askOutput {
	names := make(map[string]string, len(batch.Texts))
	for _, t := range batch.Texts {
		names[t.SourceID] = t.Name
	}

	output := askOutput{
		Answer:  answer.Text,
		Sources: make([]askSource, len(answer.Sources)),
	}
	for i, sc := range answer.Sources {
		output.Sources[i] = askSource{
			SourceID: sc.Chunk.SourceID,
			Name:     names[sc.Chunk.SourceID],
			Position: sc.Chunk.Position,
			Score:    sc.Score,
			Text:     sc.Chunk.Text,
		}
	}
	return output
}

func printAnswer(cmd *cobra.Command, output askOutput) {
	st := newOutputStyles(cmd.OutOrStdout())

	cmd.Println(st.Title.Render("Answer"))
	cmd.Println(st.Answer.Render(output.Answer))

	if len(output.Sources) == 0 {
		return
	}

	cmd.Println()
	cmd.Println(st.Title.Render("Sources"))
	for i, src := range output.Sources {
		name := src.Name
		if name == "" {
			name = src.SourceID
		}
		cmd.Printf("  [%d] %s #%d %s\n", i+1, name, src.Position, st.Muted.Render(fmt.Sprintf("(%.2f)", src.Score)))
		cmd.Printf("      %s\n", st.Muted.Render(truncate(strings.Join(strings.Fields(src.Text), " "), 100)))
	}
}
