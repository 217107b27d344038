// ABOUTME: Add command for cataloguing new wines.
// ABOUTME: Supports field flags, label-photo pre-fill, and image lookup.

package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/harper/cellar/internal/imagesearch"
	"github.com/harper/cellar/internal/models"
	"github.com/harper/cellar/internal/ui"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a wine",
	Long: `Add a wine to the active collection. With --image and --scan the label
photo is run through the vision service and recognized fields pre-fill
the record; flags given explicitly still win.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])

		typeFlag, _ := cmd.Flags().GetString("type")
		wineType, err := models.ParseWineType(typeFlag)
		if err != nil {
			return err
		}

		var img string
		if imagePath, _ := cmd.Flags().GetString("image"); imagePath != "" {
			img, err = loadImageBase64(imagePath)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
		}

		w := models.NewWine(name, wineType)
		if scan, _ := cmd.Flags().GetBool("scan"); scan {
			if img == "" {
				return fmt.Errorf("--scan needs a label photo, pass --image")
			}
			rec, err := newRecognizer().Recognize(cmd.Context(), img)
			if err != nil {
				return fmt.Errorf("label recognition failed: %w", err)
			}
			pre := rec.Wine()
			pre.ID = w.ID
			pre.AddedAt = w.AddedAt
			pre.Name = name
			pre.Type = wineType
			*w = pre
		}
		w.Image = img

		// Flags given explicitly override recognized values.
		setStr := func(flag string, dst *string) {
			if cmd.Flags().Changed(flag) {
				*dst, _ = cmd.Flags().GetString(flag)
			}
		}
		setInt := func(flag string, dst *int) {
			if cmd.Flags().Changed(flag) {
				*dst, _ = cmd.Flags().GetInt(flag)
			}
		}
		setStr("producer", &w.Producer)
		setInt("year", &w.Year)
		setStr("region", &w.Region)
		setStr("grape", &w.Grape)
		setStr("store", &w.Store)
		setStr("notes", &w.Notes)
		setInt("boldness", &w.Boldness)
		setInt("tannins", &w.Tannins)
		setInt("acidity", &w.Acidity)

		if qty, _ := cmd.Flags().GetInt("quantity"); cmd.Flags().Changed("quantity") && qty > 0 {
			w.Quantity = qty
		}
		if cmd.Flags().Changed("price") {
			price, _ := cmd.Flags().GetFloat64("price")
			w.Price = &price
		}

		if findImage, _ := cmd.Flags().GetBool("find-image"); findImage && w.Image == "" {
			attachBottleImage(cmd.Context(), w)
		}

		added, err := manager.Add(cmd.Context(), *w)
		if err != nil {
			return fmt.Errorf("failed to add wine: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Added %s (%s)", added.Name, added.ID.String()[:6])))
		return nil
	},
}

// loadImageBase64 reads a photo from disk into the base64 form stored on
// the record.
func loadImageBase64(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// attachBottleImage looks up a bottle image for the wine. Failure is never
// fatal: the record is simply saved without one.
func attachBottleImage(ctx context.Context, w *models.Wine) {
	if cfg.ImageSearchEndpoint == "" {
		fmt.Fprintln(os.Stderr, "Warning: no image search endpoint configured")
		return
	}

	searcher := imagesearch.NewHTTPSearcher(cfg.ImageSearchEndpoint)
	query := strings.TrimSpace(fmt.Sprintf("%s %s %d wine bottle", w.Producer, w.Name, w.Year))
	urls, err := searcher.Search(ctx, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: image search failed: %v\n", err)
		return
	}

	img, err := imagesearch.FetchFirst(ctx, urls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: no bottle image found: %v\n", err)
		return
	}
	w.Image = img
}

func init() {
	addCmd.Flags().StringP("type", "t", "", "wine type: red, white, rosé, sparkling, dessert")
	addCmd.Flags().String("producer", "", "producer or winery")
	addCmd.Flags().Int("year", 0, "vintage year")
	addCmd.Flags().String("region", "", "region of origin")
	addCmd.Flags().String("grape", "", "grape variety")
	addCmd.Flags().IntP("quantity", "q", 1, "bottle count")
	addCmd.Flags().Float64("price", 0, "price per bottle")
	addCmd.Flags().String("store", "", "where it was bought")
	addCmd.Flags().String("notes", "", "free-form notes (markdown)")
	addCmd.Flags().Int("boldness", 3, "boldness 1-5")
	addCmd.Flags().Int("tannins", 3, "tannins 1-5")
	addCmd.Flags().Int("acidity", 3, "acidity 1-5")
	addCmd.Flags().String("image", "", "attach a photo from file")
	addCmd.Flags().Bool("scan", false, "pre-fill fields by recognizing the --image label photo")
	addCmd.Flags().Bool("find-image", false, "look up a bottle image online")
	_ = addCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(addCmd)
}
