// Package config provides configuration management for the normalizer tooling.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidExportFormat   = errors.New("export.format must be one of: json, csv, xlsx")
	ErrMissingOutputDir      = errors.New("export.output_dir is required")
	ErrInvalidMaxRows        = errors.New("summary.max_rows must be at least 1")
	ErrInvalidMaxColWidth    = errors.New("summary.max_col_width must be at least 4")
	ErrInvalidConcurrency    = errors.New("pipeline.concurrency must be at least 1")
	ErrInvalidMaxPayloadSize = errors.New("validation.max_payload_bytes must be non-negative")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat      = errors.New("logging.format must be 'text' or 'json'")
)

// Export formats accepted by the export config.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config represents the complete normalizer tooling configuration.
type Config struct {
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Features   FeaturesConfig   `yaml:"features"`
}

// NormalizerConfig contains the settings of the normalization tooling.
type NormalizerConfig struct {
	Validation ValidationConfig `yaml:"validation"`
	Export     ExportConfig     `yaml:"export"`
	Summary    SummaryConfig    `yaml:"summary"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ValidationConfig defines payload validation behavior.
type ValidationConfig struct {
	Strict          bool `yaml:"strict"`
	MaxPayloadBytes int  `yaml:"max_payload_bytes"`
}

// ExportConfig defines chart spec export behavior.
type ExportConfig struct {
	Format      string `yaml:"format"`
	OutputDir   string `yaml:"output_dir"`
	PrettyPrint bool   `yaml:"pretty_print"`
}

// SummaryConfig defines terminal summary rendering limits.
type SummaryConfig struct {
	MaxRows      int    `yaml:"max_rows"`
	MaxColWidth  int    `yaml:"max_col_width"`
	DefaultTitle string `yaml:"default_title"`
}

// PipelineConfig defines batch processing behavior.
type PipelineConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FeaturesConfig contains feature flags.
type FeaturesConfig struct {
	AttachRawPayload bool `yaml:"attach_raw_payload"`
	SummarySheet     bool `yaml:"summary_sheet"`
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Normalizer: NormalizerConfig{
			Validation: ValidationConfig{Strict: false, MaxPayloadBytes: 1 << 20},
			Export:     ExportConfig{Format: FormatJSON, OutputDir: "./exports", PrettyPrint: true},
			Summary:    SummaryConfig{MaxRows: 10, MaxColWidth: 24, DefaultTitle: "Data Visualization"},
			Pipeline:   PipelineConfig{Concurrency: 4},
			Logging:    LoggingConfig{Level: "info", Format: "text"},
		},
		Features: FeaturesConfig{AttachRawPayload: true, SummarySheet: true},
	}
}

// LoadConfig loads configuration from YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Normalizer.Validation.MaxPayloadBytes < 0 {
		return ErrInvalidMaxPayloadSize
	}

	switch c.Normalizer.Export.Format {
	case FormatJSON, FormatCSV, FormatXLSX:
	default:
		return ErrInvalidExportFormat
	}

	if c.Normalizer.Export.OutputDir == "" {
		return ErrMissingOutputDir
	}

	if c.Normalizer.Summary.MaxRows < 1 {
		return ErrInvalidMaxRows
	}

	if c.Normalizer.Summary.MaxColWidth < 4 {
		return ErrInvalidMaxColWidth
	}

	if c.Normalizer.Pipeline.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Normalizer.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if f := c.Normalizer.Logging.Format; f != "text" && f != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// GetExportPath follows structure: {output_dir}/{name}.{format}.
func (c *Config) GetExportPath(name string) string {
	base := strings.TrimSuffix(name, "."+c.Normalizer.Export.Format)

	return fmt.Sprintf("%s/%s.%s", c.Normalizer.Export.OutputDir, base, c.Normalizer.Export.Format)
}

// DefaultTitle returns the render-time title for specs that carry none.
func (c *Config) DefaultTitle() string {
	if c.Normalizer.Summary.DefaultTitle != "" {
		return c.Normalizer.Summary.DefaultTitle
	}

	return "Data Visualization"
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Format: %s, OutputDir: %s, Concurrency: %d, Strict: %t}",
		c.Normalizer.Export.Format,
		c.Normalizer.Export.OutputDir,
		c.Normalizer.Pipeline.Concurrency,
		c.Normalizer.Validation.Strict,
	)
}
