// ABOUTME: Edit command for modifying existing wines.
// ABOUTME: Applies only the flags the user set.

package main

import (
	"fmt"

	"github.com/harper/cellar/internal/models"
	"github.com/harper/cellar/internal/ui"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id-prefix>",
	Short: "Edit a wine",
	Long:  `Update fields on a wine in the active collection. Only flags you pass are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := args[0]

		w, err := manager.FindByPrefix(prefix)
		if err != nil {
			return fmt.Errorf("failed to get wine: %w", err)
		}

		changed := false
		setString := func(flag string, dst *string) {
			if cmd.Flags().Changed(flag) {
				*dst, _ = cmd.Flags().GetString(flag)
				changed = true
			}
		}
		setInt := func(flag string, dst *int) {
			if cmd.Flags().Changed(flag) {
				*dst, _ = cmd.Flags().GetInt(flag)
				changed = true
			}
		}

		setString("name", &w.Name)
		setString("producer", &w.Producer)
		setString("region", &w.Region)
		setString("grape", &w.Grape)
		setString("store", &w.Store)
		setString("notes", &w.Notes)
		setInt("year", &w.Year)
		setInt("boldness", &w.Boldness)
		setInt("tannins", &w.Tannins)
		setInt("acidity", &w.Acidity)

		if cmd.Flags().Changed("type") {
			typeFlag, _ := cmd.Flags().GetString("type")
			wt, err := models.ParseWineType(typeFlag)
			if err != nil {
				return err
			}
			w.Type = wt
			changed = true
		}
		if cmd.Flags().Changed("price") {
			price, _ := cmd.Flags().GetFloat64("price")
			w.Price = &price
			changed = true
		}
		if cmd.Flags().Changed("image") {
			imagePath, _ := cmd.Flags().GetString("image")
			img, err := loadImageBase64(imagePath)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			w.Image = img
			changed = true
		}

		if !changed {
			fmt.Println("No changes made.")
			return nil
		}

		updated, err := manager.Update(cmd.Context(), w)
		if err != nil {
			return fmt.Errorf("failed to update wine: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Updated %s (%s)", updated.Name, updated.ID.String()[:6])))
		return nil
	},
}

func init() {
	editCmd.Flags().String("name", "", "new name")
	editCmd.Flags().StringP("type", "t", "", "new wine type")
	editCmd.Flags().String("producer", "", "new producer")
	editCmd.Flags().Int("year", 0, "new vintage year")
	editCmd.Flags().String("region", "", "new region")
	editCmd.Flags().String("grape", "", "new grape variety")
	editCmd.Flags().Float64("price", 0, "new price per bottle")
	editCmd.Flags().String("store", "", "new store")
	editCmd.Flags().String("notes", "", "new notes")
	editCmd.Flags().Int("boldness", 0, "boldness 1-5")
	editCmd.Flags().Int("tannins", 0, "tannins 1-5")
	editCmd.Flags().Int("acidity", 0, "acidity 1-5")
	editCmd.Flags().String("image", "", "replace the photo from file")
	rootCmd.AddCommand(editCmd)
}
