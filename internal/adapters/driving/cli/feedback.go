package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driving"
)

var (
	feedbackRating  int
	feedbackComment string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [result-id] [chunk-id]",
	Short: "Rate a cited chunk of a query result",
	Long: `Records a 1-5 rating for one citation of an earlier query result.
Low ratings queue the chunk for the next retraining pass, which lowers
its ranking weight.`,
	Args: cobra.ExactArgs(2),
	RunE: runFeedback,
}

func init() {
	feedbackCmd.Flags().IntVarP(&feedbackRating, "rating", "r", 0, "rating from 1 (worst) to 5 (best)")
	feedbackCmd.Flags().StringVarP(&feedbackComment, "comment", "m", "", "optional free-text comment")
	feedbackCmd.MarkFlagRequired("rating") //nolint:errcheck
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	fb, err := feedbackService.Submit(ctx, driving.FeedbackRequest{
		ResultID: args[0],
		ChunkID:  args[1],
		Rating:   feedbackRating,
		Comment:  feedbackComment,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownResult) {
			return fmt.Errorf("result %s does not cite chunk %s: %w", args[0], args[1], err)
		}
		return err
	}

	cmd.Printf("Feedback %s recorded (rating %d)\n", fb.ID, fb.Rating)
	if fb.Rating <= cfg.Feedback.NegativeThreshold {
		cmd.Println("Chunk queued for retraining.")
	}
	return nil
}
