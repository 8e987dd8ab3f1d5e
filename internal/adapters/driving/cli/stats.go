package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus and feedback statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	stats, err := statsService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("gather stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Corpus:")
	cmd.Printf("  Documents:       %d\n", stats.Store.DocumentCount)
	cmd.Printf("  Chunks:          %d\n", stats.Store.ChunkCount)
	cmd.Printf("  Indexed vectors: %d\n", stats.IndexedVectors)
	cmd.Printf("  Embedding model: %s\n", stats.EmbeddingModel)
	cmd.Println()
	cmd.Println("Feedback:")
	cmd.Printf("  Ratings:         %d\n", stats.Ratings.Count)
	if stats.Ratings.Count > 0 {
		cmd.Printf("  Average rating:  %.2f\n", stats.Ratings.Average)
		for rating := 1; rating <= 5; rating++ {
			if n := stats.Ratings.Distribution[rating]; n > 0 {
				cmd.Printf("    %d stars: %d\n", rating, n)
			}
		}
	}
	cmd.Printf("  Pending retrain: %d\n", stats.Ratings.PendingRetrain)
	return nil
}
