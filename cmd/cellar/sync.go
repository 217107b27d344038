// ABOUTME: Sync subcommand for Charm cloud integration.
// ABOUTME: Provides status, link, unlink, and now commands.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/cellar/internal/config"
	"github.com/harper/cellar/internal/remote"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Manage Charm cloud sync",
	Long: `Sync your cellar to the Charm cloud.

Charm uses SSH key authentication - no passwords needed.
Changes push automatically and remote changes stream in while
the tool runs; offline changes reconcile on the next start.

Commands:
  status  - Show sync configuration and connection status
  link    - Connect this device to Charm cloud
  unlink  - Disconnect from Charm cloud
  now     - Force an immediate fetch and merge

Examples:
  cellar sync status
  cellar sync link
  cellar sync link --host charm.example.com
  cellar sync now`,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Long:  `Display Charm sync configuration and connection status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Charm Sync Status")
		fmt.Println(strings.Repeat("-", 40))

		fmt.Printf("Config:    %s\n", config.ConfigPath())
		if cfg.CharmHost != "" {
			fmt.Printf("Host:      %s\n", cfg.CharmHost)
		} else {
			fmt.Printf("Host:      %s\n", color.New(color.Faint).Sprint("(default: cloud.charm.sh)"))
		}

		if cfg.SyncEnabled {
			fmt.Printf("Sync:      %s\n", color.GreenString("enabled"))
		} else {
			fmt.Printf("Sync:      %s\n", color.YellowString("disabled"))
			fmt.Println("\nRun 'cellar sync link' to connect to Charm cloud.")
			return nil
		}

		fmt.Println()
		if syncer.Connected() {
			fmt.Printf("Status:    %s\n", color.GreenString("connected"))
		} else {
			fmt.Printf("Status:    %s\n", color.YellowString("offline, working locally"))
		}

		lastSync, lastErr := syncer.Status()
		if !lastSync.IsZero() {
			fmt.Printf("Last sync: %s\n", lastSync.Format("2006-01-02 15:04:05"))
		}
		if lastErr != nil {
			fmt.Printf("Last err:  %s\n", color.RedString(lastErr.Error()))
		}

		if charmChannel != nil {
			if user, err := charmChannel.User(); err == nil && user != nil {
				fmt.Println()
				fmt.Printf("User ID:   %s\n", user.CharmID)
				fmt.Printf("Name:      %s\n", valueOrNone(user.Name))
			}
		}

		return nil
	},
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Connect to Charm cloud",
	Long: `Link this device to Charm cloud for sync.

Charm uses SSH key authentication. On first link, you'll see
a code to verify on another device, or you can create a new account.

Your SSH keys are used automatically - no passwords needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")
		if host != "" {
			cfg.CharmHost = host
		}

		channel, err := remote.NewCharmChannel(cfg.CharmHost)
		if err != nil {
			return fmt.Errorf("create channel: %w", err)
		}

		// Link will prompt for authentication if needed
		if err := channel.Link(); err != nil {
			return fmt.Errorf("link failed: %w", err)
		}

		cfg.SyncEnabled = true
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		color.Green("\n✓ Linked to Charm cloud")
		if user, err := channel.User(); err == nil && user != nil {
			fmt.Printf("  User ID: %s\n", user.CharmID)
			if user.Name != "" {
				fmt.Printf("  Name:    %s\n", user.Name)
			}
		}
		fmt.Println("\nYour cellar will now sync automatically.")

		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm cloud",
	Long: `Unlink this device from Charm cloud.

This stops syncing and clears the local copy of the synced data.
Your cloud data is preserved; re-link anytime with 'cellar sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if charmChannel == nil {
			fmt.Println("Not linked to Charm cloud.")
			return nil
		}

		// Confirm with user
		fmt.Println("This will disconnect this device from Charm cloud.")
		fmt.Println("Cloud data will be preserved.")
		fmt.Print("\nType 'unlink' to confirm: ")

		reader := bufio.NewReader(os.Stdin)
		confirmation, _ := reader.ReadString('\n')
		confirmation = strings.TrimSpace(confirmation)

		if confirmation != "unlink" {
			fmt.Println("Aborted.")
			return nil
		}

		// Stop the watcher before the identity changes.
		syncer.SignOut()

		if err := charmChannel.Unlink(); err != nil {
			return fmt.Errorf("unlink failed: %w", err)
		}

		cfg.SyncEnabled = false
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		color.Green("\n✓ Unlinked from Charm cloud")
		fmt.Println("Run 'cellar sync link' to reconnect.")

		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync immediately",
	Long:  `Force an immediate fetch from the Charm cloud and merge with the local collection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := syncer.SyncNow(cmd.Context()); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		col := manager.Snapshot()
		color.Green("✓ Synced")
		fmt.Printf("%d wine(s), %d archived\n", len(col.Wines), len(col.Archived))
		return nil
	},
}

func init() {
	syncLinkCmd.Flags().String("host", "", "Charm server host (default: cloud.charm.sh)")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncNowCmd)

	rootCmd.AddCommand(syncCmd)
}

// valueOrNone returns "(not set)" if the string is empty.
func valueOrNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
