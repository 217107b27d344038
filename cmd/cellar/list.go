// ABOUTME: List command for displaying the collection.
// ABOUTME: Supports the archive view, type filter, and substring search.

package main

import (
	"fmt"
	"strings"

	"github.com/harper/cellar/internal/models"
	"github.com/harper/cellar/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List wines",
	Long:  `List the active collection sorted newest first, or the archive with --archive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		archiveFlag, _ := cmd.Flags().GetBool("archive")
		typeFlag, _ := cmd.Flags().GetString("type")
		searchFlag, _ := cmd.Flags().GetString("search")
		limitFlag, _ := cmd.Flags().GetInt("limit")

		col := manager.Snapshot()

		if archiveFlag {
			return listArchive(col, typeFlag, searchFlag, limitFlag)
		}
		return listActive(col, typeFlag, searchFlag, limitFlag)
	},
}

func listActive(col models.Collection, typeFilter, search string, limit int) error {
	shown := 0
	for i := range col.Wines {
		w := &col.Wines[i]
		if !matchesFilters(*w, typeFilter, search) {
			continue
		}
		fmt.Print(ui.FormatWineListItem(w))
		shown++
		if limit > 0 && shown >= limit {
			break
		}
	}

	if shown == 0 {
		fmt.Println("No wines in the cellar.")
		return nil
	}

	fmt.Printf("\n%d wine(s), %d bottle(s) total\n", len(col.Wines), col.TotalBottles())
	return nil
}

func listArchive(col models.Collection, typeFilter, search string, limit int) error {
	shown := 0
	for i := range col.Archived {
		a := &col.Archived[i]
		if !matchesFilters(a.Wine, typeFilter, search) {
			continue
		}
		fmt.Print(ui.FormatArchivedListItem(a))
		shown++
		if limit > 0 && shown >= limit {
			break
		}
	}

	if shown == 0 {
		fmt.Println("No archived wines.")
	}
	return nil
}

func matchesFilters(w models.Wine, typeFilter, search string) bool {
	if typeFilter != "" {
		wt, err := models.ParseWineType(typeFilter)
		if err != nil || w.Type != wt {
			return false
		}
	}
	if search != "" {
		q := strings.ToLower(search)
		found := false
		for _, field := range []string{w.Name, w.Producer, w.Region, w.Grape, w.Notes} {
			if strings.Contains(strings.ToLower(field), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func init() {
	listCmd.Flags().BoolP("archive", "a", false, "list the archive instead of the active collection")
	listCmd.Flags().StringP("type", "t", "", "filter by wine type")
	listCmd.Flags().StringP("search", "s", "", "substring match on name, producer, region, grape, notes")
	listCmd.Flags().IntP("limit", "n", 0, "max results (0 for all)")
	rootCmd.AddCommand(listCmd)
}
