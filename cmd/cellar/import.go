// ABOUTME: Import command for restoring the collection from backup.
// ABOUTME: Reads JSON or YAML exports; existing records win on ID collision.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/harper/cellar/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import a collection backup",
	Long: `Import wines from a JSON or YAML export. Records whose ID already
exists in the collection are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var export ExportData
		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
			err = yaml.Unmarshal(data, &export)
		} else {
			err = json.Unmarshal(data, &export)
		}
		if err != nil {
			return fmt.Errorf("failed to parse backup: %w", err)
		}

		col := manager.Snapshot()
		existingWines := col.WinesByID()
		existingArchived := col.ArchivedByID()

		count := 0
		for _, w := range export.Wines {
			if _, ok := existingWines[w.ID]; ok {
				continue
			}
			if _, err := manager.Add(cmd.Context(), w); err != nil {
				fmt.Printf("Warning: failed to import %q: %v\n", w.Name, err)
				continue
			}
			count++
		}
		for _, a := range export.Archived {
			if _, ok := existingArchived[a.ID]; ok {
				continue
			}
			if _, err := manager.AddArchived(cmd.Context(), a); err != nil {
				fmt.Printf("Warning: failed to import archived %q: %v\n", a.Name, err)
				continue
			}
			count++
		}

		fmt.Println(ui.Success(fmt.Sprintf("Imported %d wines", count)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
