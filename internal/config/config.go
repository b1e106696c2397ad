// Package config loads the layered wobkit configuration: defaults, an
// optional wobkit.yaml, WOBKIT_* environment variables and CLI flags bound
// through viper.
package config

import (
	"fmt"
	"time"
)

// Config is the complete configuration for the wobkit commands.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Tesseract settings shared by the OCR commands
	OCR OCRConfig `mapstructure:"ocr" yaml:"ocr" json:"ocr"`

	// Grid line detection settings for the tabulate pipeline
	Grid GridConfig `mapstructure:"grid" yaml:"grid" json:"grid"`

	// Publication download settings
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch" json:"fetch"`

	// Named-entity recognition settings
	NER NERConfig `mapstructure:"ner" yaml:"ner" json:"ner"`

	// GPU monitor settings
	GPU GPUConfig `mapstructure:"gpu" yaml:"gpu" json:"gpu"`

	// Inventory normalization settings
	Inventory InventoryConfig `mapstructure:"inventory" yaml:"inventory" json:"inventory"`
}

// OCRConfig contains Tesseract settings.
type OCRConfig struct {
	Language  string `mapstructure:"language" yaml:"language" json:"language"`
	Whitelist string `mapstructure:"whitelist" yaml:"whitelist" json:"whitelist"`
}

// GridConfig contains grid line detection settings.
type GridConfig struct {
	CutoffFraction float64 `mapstructure:"cutoff_fraction" yaml:"cutoff_fraction" json:"cutoff_fraction"`
	MinDistance    int     `mapstructure:"min_distance" yaml:"min_distance" json:"min_distance"`
	MaxColumns     int     `mapstructure:"max_columns" yaml:"max_columns" json:"max_columns"`
	MaxRows        int     `mapstructure:"max_rows" yaml:"max_rows" json:"max_rows"`
	Zoom           float64 `mapstructure:"zoom" yaml:"zoom" json:"zoom"`
}

// FetchConfig contains publication index and download settings.
type FetchConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	IndexURL   string `mapstructure:"index_url" yaml:"index_url" json:"index_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// NERConfig contains named-entity recognition settings. Tagging is delegated
// to an HTTP sidecar serving the NER model.
type NERConfig struct {
	Endpoint  string  `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	Certainty float64 `mapstructure:"certainty" yaml:"certainty" json:"certainty"`
	ChunkSize int     `mapstructure:"chunk_size" yaml:"chunk_size" json:"chunk_size"`
}

// GPUConfig contains GPU monitor settings.
type GPUConfig struct {
	IntervalSec float64 `mapstructure:"interval_sec" yaml:"interval_sec" json:"interval_sec"`
	MetricsAddr string  `mapstructure:"metrics_addr" yaml:"metrics_addr" json:"metrics_addr"`
}

// InventoryConfig contains inventory normalization settings.
type InventoryConfig struct {
	Timezone string `mapstructure:"timezone" yaml:"timezone" json:"timezone"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		OCR: OCRConfig{
			Language: "nld",
		},
		Grid: GridConfig{
			CutoffFraction: 0.6,
			MinDistance:    10,
		},
		Fetch: FetchConfig{
			BaseURL:    "https://wobcovid19.rijksoverheid.nl/publicaties/",
			IndexURL:   "https://do-ams3-17.hw.webhare.net/services/wobcovid19-prod-v2-1/search/?first=0&count=300&orderby=publicationdate",
			TimeoutSec: 60,
		},
		NER: NERConfig{
			Endpoint:  "http://localhost:5001/ner",
			Certainty: 0.9,
			ChunkSize: 1337,
		},
		GPU: GPUConfig{
			IntervalSec: 1,
		},
		Inventory: InventoryConfig{
			Timezone: "Europe/Amsterdam",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.Grid.CutoffFraction <= 0 || c.Grid.CutoffFraction > 1 {
		return fmt.Errorf("invalid grid cutoff fraction: %.2f (must be in (0.0, 1.0])", c.Grid.CutoffFraction)
	}
	if c.Grid.MinDistance < 0 {
		return fmt.Errorf("invalid grid min distance: %d (must be >= 0)", c.Grid.MinDistance)
	}
	if c.Grid.MaxColumns < 0 || c.Grid.MaxRows < 0 {
		return fmt.Errorf("grid caps must be >= 0 (columns %d, rows %d)", c.Grid.MaxColumns, c.Grid.MaxRows)
	}
	if c.Grid.Zoom != 0 && (c.Grid.Zoom <= 0 || c.Grid.Zoom > 1) {
		return fmt.Errorf("invalid zoom factor: %.2f (must be in (0.0, 1.0])", c.Grid.Zoom)
	}

	if c.NER.Certainty < 0 || c.NER.Certainty > 1 {
		return fmt.Errorf("invalid NER certainty: %.2f (must be between 0.0 and 1.0)", c.NER.Certainty)
	}
	if c.NER.ChunkSize <= 0 {
		return fmt.Errorf("invalid NER chunk size: %d (must be positive)", c.NER.ChunkSize)
	}

	if c.Fetch.TimeoutSec <= 0 {
		return fmt.Errorf("invalid fetch timeout: %d (must be positive)", c.Fetch.TimeoutSec)
	}

	if c.GPU.IntervalSec <= 0 {
		return fmt.Errorf("invalid GPU poll interval: %.2f (must be positive)", c.GPU.IntervalSec)
	}

	if _, err := time.LoadLocation(c.Inventory.Timezone); err != nil {
		return fmt.Errorf("invalid inventory timezone %q: %w", c.Inventory.Timezone, err)
	}

	return nil
}
