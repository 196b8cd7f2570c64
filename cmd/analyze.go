package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/archlens/archlens/internal/analyzer"
	"github.com/archlens/archlens/internal/enrich"
	"github.com/archlens/archlens/internal/progress"
	"github.com/archlens/archlens/internal/scanner"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a project and print its architecture workflow",
	Long: `Scans the project at the given path (default: current directory),
detects services, and prints the full analysis as JSON. Use --format to
get a markdown report or just the Mermaid diagram instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "json", "output format: json, markdown, or mermaid")
	analyzeCmd.Flags().StringP("output", "o", "", "write output to a file instead of stdout")
	analyzeCmd.Flags().String("project-name", "", "project display name (defaults to the directory name)")
	analyzeCmd.Flags().Bool("no-enrich", false, "skip AI description enrichment even if configured")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	projectName, _ := cmd.Flags().GetString("project-name")
	if projectName == "" {
		projectName = cfg.ProjectName
	}
	if projectName == "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		projectName = filepath.Base(abs)
	}

	var enricher enrich.Provider
	if noEnrich, _ := cmd.Flags().GetBool("no-enrich"); !noEnrich {
		enricher, err = enrich.New(cfg.Enrichment.Provider, cfg.Enrichment.Model)
		if err != nil {
			return fmt.Errorf("creating enrichment provider: %w", err)
		}
	}

	reporter := progress.NewReporter()
	reporter.Start(len(analyzer.Stages))
	stage := 0

	res, err := analyzer.Analyze(context.Background(), root, analyzer.Options{
		ProjectName: projectName,
		Scan: scanner.Config{
			Include:     cfg.Include,
			Exclude:     cfg.Exclude,
			MaxFileSize: cfg.MaxFileSize,
			MaxFiles:    cfg.MaxFiles,
		},
		Enricher: enricher,
		Progress: func(name string) {
			stage++
			reporter.Update(stage, name)
		},
	})
	reporter.Finish()
	if err != nil {
		return err
	}

	if verbose && res.Summary.Truncated {
		fmt.Fprintln(os.Stderr, "Warning: file cap reached; content analysis covered a subset of the tree")
	}

	format, _ := cmd.Flags().GetString("format")
	out, err := renderResult(res, format)
	if err != nil {
		return err
	}

	if outputPath, _ := cmd.Flags().GetString("output"); outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Analysis written to %s\n", outputPath)
		return nil
	}

	fmt.Println(out)
	return nil
}

func renderResult(res *analyzer.Result, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding result: %w", err)
		}
		return string(data), nil
	case "markdown":
		return analyzer.RenderMarkdown(res), nil
	case "mermaid":
		return res.Mermaid, nil
	default:
		return "", fmt.Errorf("unknown format %q: must be json, markdown, or mermaid", format)
	}
}
