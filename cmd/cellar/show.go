// ABOUTME: Show command for displaying a single wine.
// ABOUTME: Renders markdown notes with glamour.

package main

import (
	"fmt"

	"github.com/harper/cellar/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a wine",
	Long:  `Display a wine's full details with rendered markdown notes. Use --archive for archived wines.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := args[0]
		archiveFlag, _ := cmd.Flags().GetBool("archive")

		if archiveFlag {
			a, err := manager.FindArchivedByPrefix(prefix)
			if err != nil {
				return fmt.Errorf("failed to get archived wine: %w", err)
			}
			fmt.Print(ui.FormatArchivedHeader(&a))
			if a.Notes != "" {
				notes, _ := ui.FormatNotes(a.Notes)
				fmt.Print(notes)
			}
			return nil
		}

		w, err := manager.FindByPrefix(prefix)
		if err != nil {
			return fmt.Errorf("failed to get wine: %w", err)
		}

		fmt.Print(ui.FormatWineHeader(&w))
		if w.Notes != "" {
			notes, _ := ui.FormatNotes(w.Notes)
			fmt.Print(notes)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolP("archive", "a", false, "look in the archive")
	rootCmd.AddCommand(showCmd)
}
