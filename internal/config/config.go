// Package config loads rangeflow command settings from defaults, an optional
// YAML file, an optional .env file and RANGEFLOW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lguimbarda/rangeflow/internal/logger"
)

const (
	ModeLazy    = "lazy"
	ModeEager   = "eager"
	ModeChannel = "channel"

	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

var (
	// Modes lists the accepted values of mode.
	Modes = []string{ModeLazy, ModeEager, ModeChannel}
	// Formats lists the accepted values of format.
	Formats = []string{FormatText, FormatJSON, FormatYAML, FormatTable}
)

var (
	ErrMissingBoundary = errors.New("first and last patterns are required")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrInvalidFormat   = errors.New("invalid format")
)

// Config is the top-level configuration. Field tags use mapstructure for
// viper unmarshalling.
type Config struct {
	First          string `mapstructure:"first"`
	Last           string `mapstructure:"last"`
	Mode           string `mapstructure:"mode"`
	Format         string `mapstructure:"format"`
	Separator      string `mapstructure:"separator"`
	Color          bool   `mapstructure:"color"`
	DiscardSkipped bool   `mapstructure:"discard_skipped"`
	Stats          bool   `mapstructure:"stats"`
	Output         string `mapstructure:"output"`

	Fields  FieldsConfig  `mapstructure:"fields"`
	Log     logger.Config `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	SQLite  SQLiteConfig  `mapstructure:"sqlite"`
}

// FieldsConfig selects fields of each extracted line, AWK style.
type FieldsConfig struct {
	Print     []int  `mapstructure:"print"`
	Separator string `mapstructure:"separator"`
	Pattern   string `mapstructure:"pattern"`
	Widths    []int  `mapstructure:"widths"`
	Join      string `mapstructure:"join"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// SQLiteConfig holds the SQLite source and store settings.
type SQLiteConfig struct {
	Path  string `mapstructure:"path"`
	Table string `mapstructure:"table"`
	Query string `mapstructure:"query"`
	Store bool   `mapstructure:"store"`
}

// Validate checks option values. Boundary patterns are compiled later by
// the predicate package.
func (c *Config) Validate() error {
	if c.First == "" || c.Last == "" {
		return ErrMissingBoundary
	}
	if !slices.Contains(Modes, c.Mode) {
		return fmt.Errorf("%w %q, want one of %v", ErrInvalidMode, c.Mode, Modes)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("%w %q, want one of %v", ErrInvalidFormat, c.Format, Formats)
	}
	if c.SQLite.Query != "" && c.SQLite.Path == "" {
		return errors.New("sqlite.query needs sqlite.path")
	}
	if c.SQLite.Store && c.SQLite.Path == "" {
		return errors.New("sqlite.store needs sqlite.path")
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}
