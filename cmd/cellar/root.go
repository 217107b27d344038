// ABOUTME: Root command definition and shared application wiring.
// ABOUTME: Opens the cache, builds the manager, and starts the syncer.

package main

import (
	"fmt"
	"os"

	"github.com/harper/cellar/internal/cache"
	"github.com/harper/cellar/internal/cellar"
	"github.com/harper/cellar/internal/config"
	"github.com/harper/cellar/internal/remote"
	cellarsync "github.com/harper/cellar/internal/sync"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg          *config.Config
	store        *cache.Store
	manager      *cellar.Manager
	syncer       *cellarsync.Syncer
	charmChannel *remote.CharmChannel

	dataFlag string
)

var rootCmd = &cobra.Command{
	Use:   "cellar",
	Short: "Track the wines in your cellar",
	Long: `Cellar is a wine collection tracker.

Catalog bottles with photos of their labels, keep tasting notes, and
move finished wines to an archive with a rating and a rebuy verdict.
The collection lives in a local cache and optionally syncs through the
Charm cloud, so it works offline and converges when you reconnect.`,
	Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	PersistentPostRun: teardownApp,
}

func Execute() error {
	return rootCmd.Execute()
}

func initApp(cmd *cobra.Command, args []string) error {
	// Best-effort; secrets like CELLAR_VISION_API_KEY may live in .env.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataPath := dataFlag
	if dataPath == "" {
		dataPath = cache.DefaultPath()
	}
	store, err = cache.Open(dataPath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	manager = cellar.NewManager(store, nil)

	var channel remote.Channel
	if cfg.SyncEnabled {
		cc, err := remote.NewCharmChannel(cfg.CharmHost,
			remote.WithWatchInterval(cfg.WatchInterval()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: remote channel unavailable: %v\n", err)
		} else {
			charmChannel = cc
			channel = cc
		}
	}

	syncer = cellarsync.New(manager, store, channel,
		cellarsync.WithGrace(cfg.SuppressWindow()))
	manager.SetPublisher(syncer)

	return syncer.Start(cmd.Context())
}

func teardownApp(cmd *cobra.Command, args []string) {
	if syncer != nil {
		syncer.Stop()
	}
	if store != nil {
		_ = store.Close()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "override the local cache directory")
}
