// ABOUTME: Remove command for deleting wines.
// ABOUTME: Includes confirmation prompt before deletion.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/harper/cellar/internal/ui"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Remove a wine",
	Long: `Permanently delete a wine from the active collection, or from the
archive with --archive. Deleting skips the archive entirely; use
'cellar archive' to keep a record of wines you drank.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := args[0]
		force, _ := cmd.Flags().GetBool("force")
		archiveFlag, _ := cmd.Flags().GetBool("archive")

		if archiveFlag {
			a, err := manager.FindArchivedByPrefix(prefix)
			if err != nil {
				return fmt.Errorf("failed to get archived wine: %w", err)
			}
			if !force && !confirmDelete(a.Name, a.ID.String()[:6]) {
				fmt.Println("Cancelled.")
				return nil
			}
			if err := manager.PurgeArchived(cmd.Context(), a.ID); err != nil {
				return fmt.Errorf("failed to delete archived wine: %w", err)
			}
			fmt.Println(ui.Success(fmt.Sprintf("Deleted archived wine %s", a.ID.String()[:6])))
			return nil
		}

		w, err := manager.FindByPrefix(prefix)
		if err != nil {
			return fmt.Errorf("failed to get wine: %w", err)
		}
		if !force && !confirmDelete(w.Name, w.ID.String()[:6]) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := manager.Delete(cmd.Context(), w.ID); err != nil {
			return fmt.Errorf("failed to delete wine: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Deleted wine %s", w.ID.String()[:6])))
		return nil
	},
}

func confirmDelete(name, idPrefix string) bool {
	fmt.Printf("Delete %q (%s)? [y/N] ", name, idPrefix)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func init() {
	rmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	rmCmd.Flags().BoolP("archive", "a", false, "delete from the archive")
	rootCmd.AddCommand(rmCmd)
}
