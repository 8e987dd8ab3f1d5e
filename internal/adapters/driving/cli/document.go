package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Soft-delete a document",
	Long: `Removes a document's vectors from the search index and marks it
deleted. Its rows stay in storage so past feedback and score-adjustment
history remain resolvable.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	docs, err := docStore.ListLiveDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	for i := range docs {
		collection := docs[i].Collection
		if collection == "" {
			collection = "-"
		}
		cmd.Printf("  %s  %-8s  %-12s  %s\n",
			docs[i].ID, docs[i].SourceType, collection,
			docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	if err := ingestService.Delete(ctx, args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %s not found", args[0])
		}
		return err
	}

	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}
