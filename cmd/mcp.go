package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archlens/archlens/internal/enrich"
	"github.com/archlens/archlens/internal/mcp"
	"github.com/archlens/archlens/internal/scanner"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Starts a Model Context Protocol server exposing the analyzer as tools
(analyze_project, estimate_costs, get_mermaid), so AI assistants can
inspect project architecture directly.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	enricher, err := enrich.New(cfg.Enrichment.Provider, cfg.Enrichment.Model)
	if err != nil {
		return fmt.Errorf("creating enrichment provider: %w", err)
	}

	srv := mcp.NewServer(scanner.Config{
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		MaxFileSize: cfg.MaxFileSize,
		MaxFiles:    cfg.MaxFiles,
	}, enricher)

	return srv.Serve()
}
