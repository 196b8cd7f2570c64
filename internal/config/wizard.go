package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// projectTypePatterns maps marker files to human-readable project types.
var projectTypePatterns = map[string]string{
	"go.mod":           "Go",
	"package.json":     "Node.js/TypeScript",
	"requirements.txt": "Python",
	"pyproject.toml":   "Python",
	"Cargo.toml":       "Rust",
	"pom.xml":          "Java",
	"main.tf":          "Terraform",
	"Dockerfile":       "Docker",
}

// detectProjectType checks the current directory for well-known project markers.
func detectProjectType() string {
	for marker, name := range projectTypePatterns {
		matches, _ := filepath.Glob(marker)
		if len(matches) > 0 {
			return name
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .archlens.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to archlens! Let's configure your project.")
	fmt.Println()

	if projType := detectProjectType(); projType != "" {
		fmt.Printf("Detected project type: %s\n\n", projType)
	}

	wd, _ := os.Getwd()

	// 1. Project name.
	namePrompt := promptui.Prompt{
		Label:   "Project name",
		Default: filepath.Base(wd),
	}
	projectName, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("project name: %w", err)
	}

	// 2. Enrichment provider.
	providerPrompt := promptui.Select{
		Label: "Description enrichment",
		Items: []string{
			"none   — templated descriptions only",
			"openai — AI-generated descriptions (needs OPENAI_API_KEY)",
		},
	}
	providerIdx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	providers := []string{"none", "openai"}
	provider := providers[providerIdx]

	// 3. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated globs, blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: "8420",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg := DefaultConfig()
	cfg.ProjectName = projectName
	cfg.Enrichment.Provider = provider
	cfg.Server.Port = port
	if excludeStr != "" {
		cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)
	}

	if provider == "openai" && os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Println("\nNote: Set OPENAI_API_KEY in your environment before running archlens analyze.")
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
