package cli

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or clear the current session",
	RunE:  runSessionShow,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the documents in the current session",
	RunE:  runSessionShow,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the current session",
	RunE:  runSessionClear,
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionShow(cmd *cobra.Command, _ []string) error {
	if sessionStore == nil {
		return errors.New("session store not configured")
	}

	batch, err := sessionStore.Load(commandContext(cmd))
	if err != nil {
		return userError(err)
	}

	chars := make(map[string]int, len(batch.Texts))
	for _, t := range batch.Texts {
		chars[t.SourceID] = utf8.RuneCountInString(t.Text)
	}

	st := newOutputStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render(fmt.Sprintf("Session: %d documents", len(batch.Diagnostics))))
	for _, d := range batch.Diagnostics {
		if d.Degraded {
			cmd.Println(st.Warning.Render(fmt.Sprintf("  ! %s (%s): %s", d.Name, d.Kind, d.Reason)))
			continue
		}
		cmd.Printf("  - %s (%s) %s\n", d.Name, d.Kind,
			st.Muted.Render(fmt.Sprintf("%d characters via %s", chars[d.SourceID], d.Method)))
	}
	return nil
}

func runSessionClear(cmd *cobra.Command, _ []string) error {
	if sessionStore == nil {
		return errors.New("session store not configured")
	}

	if err := sessionStore.Clear(commandContext(cmd)); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	cmd.Println("Session cleared.")
	return nil
}
