package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialise configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Long:  `Writes the default configuration to disk. Existing files are overwritten.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// openConfigStore opens the config store without wiring the rest of the
// services; config commands must work with no database present.
func openConfigStore() (*configfile.ConfigStore, error) {
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config store: %w", err)
	}
	return store, nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}
	loaded, err := store.Load()
	if err != nil {
		return err
	}

	cmd.Printf("mode:             %s\n", loaded.Mode)
	cmd.Printf("data dir:         %s\n", displayOrDefault(loaded.DataDir, "~/.ktx/data"))
	cmd.Printf("chunk size:       %d runes (%d overlap)\n", loaded.Chunking.Size, loaded.Chunking.Overlap)
	cmd.Printf("embedding:        %s (%s)\n", loaded.Embedding.Model, loaded.Embedding.Provider)
	cmd.Printf("llm:              %s (%s)\n", loaded.LLM.Model, loaded.LLM.Provider)
	cmd.Printf("top k:            %d\n", loaded.Retrieval.TopK)
	cmd.Printf("min similarity:   %.2f\n", loaded.Retrieval.MinSimilarity)
	cmd.Printf("negative rating:  <= %d\n", loaded.Feedback.NegativeThreshold)
	cmd.Printf("scheduler:        enabled=%t\n", loaded.Scheduler.Enabled)
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}
	loaded, err := store.Load()
	if err != nil {
		return err
	}
	if err := store.Save(loaded); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", store.Path())
	return nil
}

// displayOrDefault substitutes a placeholder for empty values.
func displayOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
