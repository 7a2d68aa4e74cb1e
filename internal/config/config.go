package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rmfonseca/glicolog/internal/parse"
)

// Config holds all runtime configuration for a glicoload run.
type Config struct {
	DSN          string
	Paths        []string // workbook files or directories holding them
	LogFormat    string   // "text" or "json"
	Concurrency  int      // parallel file parses
	DryRun       bool     // parse and report, write nothing
	RecommendURL string   // optional recommendation service endpoint
	ListenAddr   string   // intake API bind address
	Policy       parse.Policy
}

// Default returns a Config with production bounds and settings.
func Default() Config {
	return Config{
		LogFormat:   "text",
		Concurrency: 4,
		ListenAddr:  ":8080",
		Policy:      parse.DefaultPolicy(),
	}
}

// yamlConfig is the on-disk YAML structure. Policy fields not present in
// the file keep their defaults.
type yamlConfig struct {
	Policy       parse.Policy `yaml:"policy"`
	Concurrency  int          `yaml:"concurrency"`
	RecommendURL string       `yaml:"recommend_url"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	yc := yamlConfig{Policy: c.Policy}
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Policy = yc.Policy
	if yc.Concurrency > 0 {
		c.Concurrency = yc.Concurrency
	}
	if yc.RecommendURL != "" {
		c.RecommendURL = yc.RecommendURL
	}
	return c.Policy.Validate()
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if len(c.Paths) == 0 {
		return fmt.Errorf("at least one workbook path is required")
	}
	for _, p := range c.Paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("path not accessible: %w", err)
		}
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return c.Policy.Validate()
}

// ValidateWithDSN checks both paths and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}
