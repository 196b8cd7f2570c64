package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archlens/archlens/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "archlens",
	Short: "Project architecture analysis, diagrams, and cost estimates",
	Long: `Archlens scans a project tree, detects the cloud services, databases,
and frameworks it uses, and produces an architecture workflow: a grouped
service graph, ordered narrative steps, infrastructure cost estimates,
and a Mermaid diagram.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads and validates the configuration file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
