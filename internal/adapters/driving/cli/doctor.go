package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driven/command"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check external tools and provider configuration",
	Long: `Checks that the OCR and conversion tools are installed and that the
configured embedding and LLM providers respond.

Missing tools only disable the formats that need them; provider failures
prevent ingesting or answering.`,
	RunE: runDoctor,
}

// lookupTool reports whether an external tool is installed.
var lookupTool = func(name string) error {
	return command.CheckAvailable(name)
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	st := newOutputStyles(cmd.OutOrStdout())
	ok := func(label string) { cmd.Printf("  %s %s\n", st.Success.Render("ok"), label) }
	warn := func(label string, err error) { cmd.Printf("  %s %s: %v\n", st.Warning.Render("--"), label, err) }
	fail := func(label string, err error) { cmd.Printf("  %s %s: %v\n", st.Error.Render("!!"), label, err) }

	cmd.Println(st.Title.Render("Tools"))
	missingTools := false
	for _, tool := range []struct{ name, use string }{
		{settings.OCR.TesseractPath, "images and scanned PDFs"},
		{settings.OCR.PdftoppmPath, "scanned PDFs"},
		{settings.OCR.AntiwordPath, "legacy .doc files"},
	} {
		label := fmt.Sprintf("%s (%s)", tool.name, tool.use)
		if err := lookupTool(tool.name); err != nil {
			warn(label, err)
			missingTools = true
			continue
		}
		ok(label)
	}
	if missingTools {
		cmd.Println()
		cmd.Println(st.Muted.Render(command.InstallInstructions()))
	}
	cmd.Println()

	problems := 0
	cmd.Println(st.Title.Render("Configuration"))
	checks := []struct {
		label string
		check func() error
	}{
		{"settings", settingsService.Validate},
		{fmt.Sprintf("embedding (%s)", settings.Embedding.Provider), settingsService.ValidateEmbeddingConfig},
		{fmt.Sprintf("llm (%s)", settings.LLM.Provider), settingsService.ValidateLLMConfig},
	}
	for _, c := range checks {
		if err := c.check(); err != nil {
			fail(c.label, err)
			problems++
			continue
		}
		ok(c.label)
	}

	if problems > 0 {
		return fmt.Errorf("doctor found %d problem(s)", problems)
	}
	return nil
}
