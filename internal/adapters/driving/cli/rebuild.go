package cli

import (
	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Re-embed all documents into a fresh index",
	Long: `Re-embeds every live chunk with the active embedding model and rebuilds
the vector index. Run this after switching embedding models; chunks
carrying a stale embedding version are excluded from search until then.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	report, err := ingestService.Rebuild(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Rebuilt index: %d documents, %d chunks (model %s)\n",
		report.Documents, report.Chunks, report.EmbeddingVersion)
	return nil
}
