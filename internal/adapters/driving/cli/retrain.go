package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

var retrainCmd = &cobra.Command{
	Use:   "retrain",
	Short: "Process queued feedback into score adjustments",
	Long: `Drains the retrain queue: negative feedback accumulated since the last
pass is grouped by chunk and converted into diminishing relevance-score
penalties. Safe to run repeatedly; processed items are never re-applied.`,
	Args: cobra.NoArgs,
	RunE: runRetrain,
}

func init() {
	rootCmd.AddCommand(retrainCmd)
}

func runRetrain(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	report, err := retrainService.Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRetrainInProgress) {
			return errors.New("another retraining run is already active")
		}
		return err
	}

	if report.Processed == 0 {
		cmd.Println("Retrain queue is empty.")
		return nil
	}
	cmd.Printf("Processed %d queue items; adjusted %d chunks.\n",
		report.Processed, report.ChunksAdjusted)
	return nil
}
