// Package config loads the .archlens.yml configuration with ARCHLENS_*
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no config path is given.
const DefaultPath = ".archlens.yml"

// Config is the top-level configuration, corresponding to .archlens.yml.
type Config struct {
	ProjectName string   `yaml:"project_name" koanf:"project_name"`
	Include     []string `yaml:"include" koanf:"include"`
	Exclude     []string `yaml:"exclude" koanf:"exclude"`
	MaxFiles    int      `yaml:"max_files" koanf:"max_files"`
	MaxFileSize int64    `yaml:"max_file_size" koanf:"max_file_size"`

	Enrichment EnrichmentConfig `yaml:"enrichment" koanf:"enrichment"`
	Server     ServerConfig     `yaml:"server" koanf:"server"`
}

// EnrichmentConfig selects the optional description provider.
type EnrichmentConfig struct {
	Provider string `yaml:"provider" koanf:"provider"` // "none" or "openai"
	Model    string `yaml:"model" koanf:"model"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int    `yaml:"port" koanf:"port"`
	DataDir  string `yaml:"data_dir" koanf:"data_dir"`
	AllowAll bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Include: []string{"**"},
		Exclude: []string{},
		Enrichment: EnrichmentConfig{
			Provider: "none",
		},
		Server: ServerConfig{
			Port:    8420,
			DataDir: ".archlens",
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ARCHLENS_*). A missing file is not an
// error; defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// ARCHLENS_SERVER__PORT -> server.port, ARCHLENS_PROJECT_NAME -> project_name.
	if err := k.Load(env.Provider("ARCHLENS_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "ARCHLENS_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized enrichment provider values.
var validProviders = map[string]bool{
	"":       true,
	"none":   true,
	"openai": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if !validProviders[c.Enrichment.Provider] {
		return fmt.Errorf("invalid enrichment provider %q: must be none or openai", c.Enrichment.Provider)
	}
	if c.MaxFiles < 0 {
		return fmt.Errorf("max_files must be non-negative")
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must be non-negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
