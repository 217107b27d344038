// ABOUTME: Scan command for cataloguing wines from label photos.
// ABOUTME: Runs label recognition; prints the record, or adds it with --add.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/harper/cellar/internal/config"
	"github.com/harper/cellar/internal/ui"
	"github.com/harper/cellar/internal/vision"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <photo>",
	Short: "Scan a label photo",
	Long: `Read a wine record from a photo of its label. The photo is sent to the
configured vision service and the extracted record is printed. Pass
--add to save it to the collection with the photo attached.

With no vision API key configured, a demo recognizer fills in a sample
wine so the flow can be tried end to end.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		photoPath := args[0]

		img, err := loadImageBase64(photoPath)
		if err != nil {
			return fmt.Errorf("failed to read photo: %w", err)
		}

		rec, err := newRecognizer().Recognize(cmd.Context(), img)
		if err != nil {
			return fmt.Errorf("label recognition failed: %w", err)
		}

		w := rec.Wine()
		w.Image = img
		if findImage, _ := cmd.Flags().GetBool("find-image"); findImage {
			attachBottleImage(cmd.Context(), &w)
		}

		if save, _ := cmd.Flags().GetBool("add"); !save {
			fmt.Print(ui.FormatWineHeader(&w))
			fmt.Println("Not saved. Run again with --add to keep it.")
			return nil
		}

		added, err := manager.Add(cmd.Context(), w)
		if err != nil {
			return fmt.Errorf("failed to add wine: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Recognized and added %s (%s)", added.Name, added.ID.String()[:6])))
		fmt.Print(ui.FormatWineListItem(&added))
		return nil
	},
}

// newRecognizer picks the vision backend from config. The hosted service
// falls back to the demo recognizer so a bad key never blocks the flow.
func newRecognizer() vision.Recognizer {
	demo := vision.NewStub(time.Now().UnixNano())

	if cfg.VisionProvider != "openai" {
		return demo
	}

	apiKey := config.VisionAPIKey()
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: CELLAR_VISION_API_KEY not set, using demo recognizer")
		return demo
	}

	endpoint := cfg.VisionEndpoint
	if endpoint == "" {
		endpoint = vision.DefaultEndpoint
	}
	model := cfg.VisionModel
	if model == "" {
		model = vision.DefaultModel
	}

	return vision.WithFallback(vision.NewOpenAI(endpoint, model, apiKey), demo)
}

func init() {
	scanCmd.Flags().Bool("add", false, "save the recognized wine to the collection")
	scanCmd.Flags().Bool("find-image", false, "also look up a bottle image online")
	rootCmd.AddCommand(scanCmd)
}
