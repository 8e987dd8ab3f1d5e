package cli

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/services"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/logger"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/watcher"
)

var (
	watchInbox      string
	watchCollection string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an inbox directory and ingest new files",
	Long: `Watches an inbox directory; files dropped into it are normalised and
ingested automatically. Files already present at startup are ingested
first. When the scheduler is enabled in the configuration, periodic
retraining runs in the background for as long as the watcher is up.

Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchInbox, "inbox", "", "inbox directory (default <data-dir>/inbox)")
	watchCmd.Flags().StringVarP(&watchCollection, "collection", "c", "", "collection tag for ingested files")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := initServices(ctx); err != nil {
		return err
	}

	inbox := watchInbox
	if inbox == "" {
		inbox = filepath.Join(dataDir(), "inbox")
	}
	if err := os.MkdirAll(inbox, 0700); err != nil {
		return err
	}

	if cfg.Scheduler.Enabled {
		scheduler := services.NewScheduler(cfg.Scheduler, schedulerStore, retrainService)
		go func() {
			if err := scheduler.Start(ctx); err != nil {
				logger.Warn("Scheduler stopped: %v", err)
			}
		}()
		defer scheduler.Stop() //nolint:errcheck
	}

	w := watcher.New(inbox, watchCollection, ingestService)
	return w.Run(ctx)
}

// dataDir resolves the configured data directory, defaulting to ~/.ktx/data.
func dataDir() string {
	if cfg != nil && cfg.DataDir != "" {
		return cfg.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".ktx", "data")
}
