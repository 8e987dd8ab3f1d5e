package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

var (
	queryTopK          int
	queryCollection    string
	queryMinSimilarity float64
	queryJSON          bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Ask a question over the indexed documents",
	Long: `Embeds the query, retrieves the most relevant chunks, re-ranks them by
feedback-tuned relevance, and prints an answer with citations.

The printed result ID can be passed to 'ktx feedback' to rate citations.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of citations to return (0 = configured default)")
	queryCmd.Flags().StringVarP(&queryCollection, "collection", "c", "", "restrict retrieval to one collection")
	queryCmd.Flags().Float64Var(&queryMinSimilarity, "min-similarity", 0, "similarity floor override")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	result, err := queryService.Query(ctx, args[0], domain.QueryOptions{
		TopK:          queryTopK,
		Collection:    queryCollection,
		MinSimilarity: queryMinSimilarity,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(result.Answer)
	cmd.Println()

	if len(result.Citations) == 0 {
		cmd.Printf("Result ID: %s (no citations)\n", result.ID)
		return nil
	}

	cmd.Println("Citations:")
	for i, c := range result.Citations {
		cmd.Printf("  [%d] chunk %s (similarity %.3f, adjusted %.3f)\n",
			i+1, c.ChunkID, c.Similarity, c.Adjusted)
		cmd.Printf("      %s\n", snippet(c.Content, 120))
	}
	cmd.Println()
	cmd.Printf("Result ID: %s\n", result.ID)
	return nil
}

// snippet truncates text to at most n runes for single-line display.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
