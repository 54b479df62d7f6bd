// Package config loads offertpipe configuration from a TOML file and
// carries the injectable domain lookup tables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all pipeline configuration. Zero values are filled in by
// Default; a TOML file overrides individual fields.
type Config struct {
	// InputDir contains the raw PDF quote documents.
	InputDir string `toml:"input_dir"`
	// WorkDir receives all intermediate and final stage outputs.
	WorkDir string `toml:"work_dir"`
	// ExtraDir optionally contains pre-built JSON records merged into the
	// final dataset directory.
	ExtraDir string `toml:"extra_dir"`

	// Variants is the number of synthetic copies per record (excluding the
	// retained original).
	Variants int `toml:"variants"`
	// Workers bounds the per-file fan-out of a batch run.
	Workers int `toml:"workers"`
	// Seed fixes the random source of the variant and market simulation
	// stages. Zero selects a time-based seed.
	Seed int64 `toml:"seed"`

	// Tables is the injectable domain lookup data.
	Tables Tables `toml:"tables"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		InputDir: "quotes",
		WorkDir:  "out",
		Variants: 19,
		Workers:  runtime.NumCPU(),
		Tables:   DefaultTables(),
	}
}

// Load reads a TOML config file over the defaults. An empty path returns the
// defaults unchanged; a missing file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Variants < 0 {
		return errors.New("config: variants must be >= 0")
	}
	if c.Workers < 1 {
		return errors.New("config: workers must be >= 1")
	}
	if _, ok := c.Tables.Tolerance[ToleranceDefault]; !ok {
		return errors.New("config: tolerance table must contain a DEFAULT row")
	}
	if len(c.Tables.AlloyCategories) == 0 {
		return errors.New("config: alloy_categories must not be empty")
	}
	for _, s := range c.Tables.AlloySeries {
		if _, ok := c.Tables.StrengthRanges[s]; !ok {
			return fmt.Errorf("config: no strength range for alloy series %d", s)
		}
	}
	return nil
}

// Stage output directories under WorkDir. Every stage reads the previous
// stage's directory and owns its own.

// TxtDir holds raw text extracted from PDFs.
func (c *Config) TxtDir() string { return filepath.Join(c.WorkDir, "txt") }

// CanonicalDir holds canonical section-delimited text.
func (c *Config) CanonicalDir() string { return filepath.Join(c.WorkDir, "txt_corrected") }

// QuoteDir holds structured quote JSON documents.
func (c *Config) QuoteDir() string { return filepath.Join(c.WorkDir, "json") }

// RowDir holds per-product flat row JSON files split from the dataset.
func (c *Config) RowDir() string { return filepath.Join(c.WorkDir, "json_rows") }

// NormalizedDir holds normalized flat records.
func (c *Config) NormalizedDir() string { return filepath.Join(c.WorkDir, "json_transformed") }

// VariantDir holds original and perturbed record copies.
func (c *Config) VariantDir() string { return filepath.Join(c.WorkDir, "json_variants") }

// ReadyDir holds fully enriched records ready for training.
func (c *Config) ReadyDir() string { return filepath.Join(c.WorkDir, "json_ready") }

// DatasetCSV is the flat tabular dataset file.
func (c *Config) DatasetCSV() string { return filepath.Join(c.WorkDir, "processed_quotes.csv") }

// DatasetXLSX is the spreadsheet rendition of the dataset.
func (c *Config) DatasetXLSX() string { return filepath.Join(c.WorkDir, "processed_quotes.xlsx") }

// DatasetDB is the SQLite rendition of the dataset.
func (c *Config) DatasetDB() string { return filepath.Join(c.WorkDir, "dataset.db") }
