// ABOUTME: Archive command for recording finished wines.
// ABOUTME: Moves a wine to the archive with rating, rebuy verdict, and notes.

package main

import (
	"fmt"

	"github.com/harper/cellar/internal/models"
	"github.com/harper/cellar/internal/ui"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <id-prefix>",
	Short: "Archive a wine",
	Long:  `Move a wine from the active collection to the archive with a tasting verdict.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := args[0]
		rating, _ := cmd.Flags().GetInt("rating")
		rebuyFlag, _ := cmd.Flags().GetString("rebuy")
		notes, _ := cmd.Flags().GetString("notes")

		rebuy := models.Rebuy(rebuyFlag)
		if !rebuy.Valid() {
			return fmt.Errorf("invalid rebuy verdict %q: want yes, maybe, or no", rebuyFlag)
		}

		w, err := manager.FindByPrefix(prefix)
		if err != nil {
			return fmt.Errorf("failed to get wine: %w", err)
		}

		archived, err := manager.Archive(cmd.Context(), w.ID, rating, rebuy, notes)
		if err != nil {
			return fmt.Errorf("failed to archive wine: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Archived %s %s", archived.Name, ui.RatingStars(archived.Rating))))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id-prefix>",
	Short: "Restore an archived wine",
	Long: `Move an archived wine back into the active collection. The wine comes
back as a new entry keeping its bottle count (at least one); the archive
record is removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := args[0]

		a, err := manager.FindArchivedByPrefix(prefix)
		if err != nil {
			return fmt.Errorf("failed to get archived wine: %w", err)
		}

		restored, err := manager.Restore(cmd.Context(), a.ID)
		if err != nil {
			return fmt.Errorf("failed to restore wine: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Restored %s (%s)", restored.Name, restored.ID.String()[:6])))
		return nil
	},
}

func init() {
	archiveCmd.Flags().IntP("rating", "r", 0, "rating 1-5")
	archiveCmd.Flags().String("rebuy", "", "rebuy verdict: yes, maybe, no")
	archiveCmd.Flags().String("notes", "", "tasting notes")
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(restoreCmd)
}
