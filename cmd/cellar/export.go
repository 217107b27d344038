// ABOUTME: Export command for backing up the collection.
// ABOUTME: Supports JSON (with photos) and YAML (records only) formats.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/harper/cellar/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type ExportData struct {
	ExportedAt time.Time             `json:"exported_at" yaml:"exported"`
	Version    string                `json:"version" yaml:"version"`
	Wines      []models.Wine         `json:"wines" yaml:"wines"`
	Archived   []models.ArchivedWine `json:"archived" yaml:"archived"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collection",
	Long: `Export the full collection, active and archived, to JSON or YAML.
JSON keeps attached photos; YAML is records only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")

		col := manager.Snapshot()
		export := ExportData{
			ExportedAt: time.Now(),
			Version:    "1.0",
			Wines:      col.Wines,
			Archived:   col.Archived,
		}

		var data []byte
		var err error
		switch format {
		case "json":
			data, err = json.MarshalIndent(export, "", "  ")
		case "yaml":
			data, err = yaml.Marshal(export)
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
		if err != nil {
			return err
		}

		if outputPath == "" || outputPath == "-" {
			fmt.Println(string(data))
			return nil
		}

		return os.WriteFile(outputPath, data, 0644)
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "export format (json|yaml)")
	exportCmd.Flags().StringP("output", "o", "", "output path ('-' for stdout)")
	rootCmd.AddCommand(exportCmd)
}
