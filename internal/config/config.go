// Package config loads tsdeck settings from tsdeck.toml, TSDECK_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/sartorproj/tsdeck/internal/errors"
)

// EnvPrefix is the prefix for environment overrides, e.g. TSDECK_DATA_COLUMN.
const EnvPrefix = "TSDECK"

// Config holds all application configuration.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Selection SelectionConfig `mapstructure:"selection"`
	Output    OutputConfig    `mapstructure:"output"`
	Recorder  RecorderConfig  `mapstructure:"recorder"`
	Log       LogConfig       `mapstructure:"log"`
	Deck      DeckConfig      `mapstructure:"deck"`
}

// DataConfig selects the dataset and the column analysed by the deck.
type DataConfig struct {
	Path   string `mapstructure:"path"` // empty uses the bundled sample
	Column string `mapstructure:"column"`
}

// AnalysisConfig holds test and forecast defaults.
type AnalysisConfig struct {
	Alpha float64 `mapstructure:"alpha"`
	Lags  int     `mapstructure:"lags"`
	Steps int     `mapstructure:"steps"`
}

// SelectionConfig configures order selection and the brute-force grid.
type SelectionConfig struct {
	MaxAR     int        `mapstructure:"max_ar"`
	MaxMA     int        `mapstructure:"max_ma"`
	Criteria  []string   `mapstructure:"criteria"`
	Criterion string     `mapstructure:"criterion"`
	Workers   int        `mapstructure:"workers"`
	Grid      GridConfig `mapstructure:"grid"`
}

// GridConfig holds inclusive "lo:hi" ranges for the seven grid dimensions.
type GridConfig struct {
	P  string `mapstructure:"p"`
	D  string `mapstructure:"d"`
	Q  string `mapstructure:"q"`
	SP string `mapstructure:"sp"`
	SD string `mapstructure:"sd"`
	SQ string `mapstructure:"sq"`
	S  string `mapstructure:"s"`
}

// OutputConfig controls where plots are written.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// RecorderConfig enables the optional SQLite result store.
type RecorderConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	JSON      bool `mapstructure:"json"`
	Verbosity int  `mapstructure:"verbosity"`
}

// DeckConfig controls the presenter.
type DeckConfig struct {
	Path        string `mapstructure:"path"` // empty uses the built-in deck
	Interactive bool   `mapstructure:"interactive"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.path", "")
	v.SetDefault("data.column", "infl")

	v.SetDefault("analysis.alpha", 0.05)
	v.SetDefault("analysis.lags", 20)
	v.SetDefault("analysis.steps", 12)

	v.SetDefault("selection.max_ar", 4)
	v.SetDefault("selection.max_ma", 2)
	v.SetDefault("selection.criteria", []string{"aic", "bic"})
	v.SetDefault("selection.criterion", "aic")
	v.SetDefault("selection.workers", 0)
	v.SetDefault("selection.grid.p", "0:2")
	v.SetDefault("selection.grid.d", "0:1")
	v.SetDefault("selection.grid.q", "0:2")
	v.SetDefault("selection.grid.sp", "0:1")
	v.SetDefault("selection.grid.sd", "0:0")
	v.SetDefault("selection.grid.sq", "0:1")
	v.SetDefault("selection.grid.s", "4:4")

	v.SetDefault("output.dir", "figures")
	v.SetDefault("output.format", "png")

	v.SetDefault("recorder.path", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("deck.path", "")
	v.SetDefault("deck.interactive", false)
}

// NewViper builds a Viper instance with defaults, environment binding and,
// when found, the config file. An explicit path must exist; without one
// tsdeck.toml is searched in the working directory and ~/.config/tsdeck.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		return v, nil
	}

	v.SetConfigName("tsdeck")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "tsdeck"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}
	return v, nil
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from path (or the default search locations).
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// Validate checks value ranges that would otherwise fail deep inside a cell.
func (c *Config) Validate() error {
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.Newf("analysis.alpha must be in (0, 1), got %v", c.Analysis.Alpha)
	}
	if c.Analysis.Steps < 0 {
		return errors.Newf("analysis.steps must be non-negative, got %d", c.Analysis.Steps)
	}
	if c.Selection.MaxAR < 0 || c.Selection.MaxMA < 0 {
		return errors.New("selection.max_ar and selection.max_ma must be non-negative")
	}
	if c.Selection.Workers < 0 {
		return errors.New("selection.workers must be non-negative")
	}
	switch c.Output.Format {
	case "png", "svg", "jpg":
	default:
		return errors.Newf("output.format %q is not one of png, svg, jpg", c.Output.Format)
	}
	if c.Data.Column == "" {
		return errors.New("data.column must be set")
	}
	return nil
}
