// ABOUTME: Quantity command for adjusting bottle counts.
// ABOUTME: The count never drops below one; archive the wine to remove it.

package main

import (
	"fmt"
	"strconv"

	"github.com/harper/cellar/internal/ui"
	"github.com/spf13/cobra"
)

var qtyCmd = &cobra.Command{
	Use:   "qty <id-prefix> <delta>",
	Short: "Adjust bottle count",
	Long: `Change a wine's bottle count by a delta, e.g. 'cellar qty a1b2c3 -1'
after opening a bottle. The count never drops below one; when you finish
the last bottle, archive the wine instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := args[0]
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid delta %q: %w", args[1], err)
		}

		w, err := manager.FindByPrefix(prefix)
		if err != nil {
			return fmt.Errorf("failed to get wine: %w", err)
		}

		before := w.Quantity
		updated, err := manager.AdjustQuantity(cmd.Context(), w.ID, delta)
		if err != nil {
			return fmt.Errorf("failed to adjust quantity: %w", err)
		}

		if updated.Quantity == before && delta != 0 {
			fmt.Printf("%s stays at 1 bottle. Use 'cellar archive %s' when it's finished.\n",
				updated.Name, updated.ID.String()[:6])
			return nil
		}

		fmt.Println(ui.Success(fmt.Sprintf("%s now has %d bottle(s)", updated.Name, updated.Quantity)))
		return nil
	},
}

func init() {
	// Stop flag parsing at the first positional arg so a negative delta
	// like -1 is not read as a flag.
	qtyCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(qtyCmd)
}
