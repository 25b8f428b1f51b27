// Package config loads the settings of a backtest run from TOML, YAML or
// JSON files and BACKTESTER_* environment variables.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rustyeddy/backtester/feed"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/sim"
	"github.com/rustyeddy/backtester/strategies"
	"gopkg.in/yaml.v3"
)

// Config represents the complete backtest configuration
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data" toml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy" toml:"strategy"`
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger" toml:"ledger"`
	Journal  JournalConfig  `json:"journal" yaml:"journal" toml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log" toml:"log"`
}

// DataConfig names the bar files to replay and how to read them.
type DataConfig struct {
	Files      []string `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
	Delimiter  string   `json:"delimiter,omitempty" yaml:"delimiter,omitempty" toml:"delimiter,omitempty"`
	TimeFormat string   `json:"time_format,omitempty" yaml:"time_format,omitempty" toml:"time_format,omitempty"` // s, ms, a Go layout or empty to detect
	From       string   `json:"from,omitempty" yaml:"from,omitempty" toml:"from,omitempty"`
	To         string   `json:"to,omitempty" yaml:"to,omitempty" toml:"to,omitempty"`
	Interval   string   `json:"interval,omitempty" yaml:"interval,omitempty" toml:"interval,omitempty"` // e.g. "1h", "H1"
}

// StrategyConfig selects a registered strategy and its parameters.
type StrategyConfig struct {
	Name   string            `json:"name" yaml:"name" toml:"name"`
	Params strategies.Params `json:"params" yaml:"params" toml:"params"`
}

// LedgerConfig contains the accounting knobs of a run.
type LedgerConfig struct {
	Scale      int32  `json:"scale" yaml:"scale" toml:"scale"`
	Commission string `json:"commission,omitempty" yaml:"commission,omitempty" toml:"commission,omitempty"` // "0.001" or "0.1%"
	Workers    int    `json:"workers" yaml:"workers" toml:"workers"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type             string `json:"type" yaml:"type" toml:"type"` // "", "csv" or "sqlite"
	SessionsFile     string `json:"sessions_file,omitempty" yaml:"sessions_file,omitempty" toml:"sessions_file,omitempty"`
	TransactionsFile string `json:"transactions_file,omitempty" yaml:"transactions_file,omitempty" toml:"transactions_file,omitempty"`
	DBPath           string `json:"db_path,omitempty" yaml:"db_path,omitempty" toml:"db_path,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"` // console or json
}

// Load builds a Config from the defaults, the file at path when path is not
// empty, a .env file in the working directory if there is one, and
// BACKTESTER_* environment variables, in that order. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file. TOML is chosen by the .toml
// extension; anything else is read as YAML with a JSON fallback. Fields the
// file leaves out keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.decodeFile(path); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config (TOML): %w", err)
		}
		return nil
	}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, c); err != nil {
		if jerr := json.Unmarshal(data, c); jerr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return nil
}

// SaveToFile saves configuration to a file; the format follows the extension
// (.toml, .yaml / .yml, JSON otherwise).
func (c *Config) SaveToFile(path string) error {
	data, err := c.Marshal(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Marshal encodes the configuration as "toml", "yaml" / "yml" or, for any
// other format, indented JSON.
func (c *Config) Marshal(format string) ([]byte, error) {
	var data []byte
	var err error

	switch strings.ToLower(format) {
	case "toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		data = buf.Bytes()
	case "yaml", "yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := strategies.Check(c.Strategy.Name); err != nil {
		return fmt.Errorf("strategy.name: %w", err)
	}
	if len([]rune(c.Data.Delimiter)) > 1 {
		return fmt.Errorf("data.delimiter must be a single character")
	}
	if _, err := c.Data.CSVOptions(); err != nil {
		return err
	}
	if c.Ledger.Scale < 0 {
		return fmt.Errorf("ledger.scale must not be negative")
	}
	if c.Ledger.Workers < 0 {
		return fmt.Errorf("ledger.workers must not be negative")
	}
	if _, err := c.Ledger.NewCommission(); err != nil {
		return err
	}
	switch c.Journal.Type {
	case "":
	case "csv":
		if c.Journal.SessionsFile == "" || c.Journal.TransactionsFile == "" {
			return fmt.Errorf("journal sessions_file and transactions_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be empty, 'csv' or 'sqlite'")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	return nil
}

// CSVOptions converts the data section into feed options.
func (d DataConfig) CSVOptions() (feed.CSVOptions, error) {
	var opt feed.CSVOptions
	if r := []rune(d.Delimiter); len(r) > 0 {
		opt.Delimiter = r[0]
	}
	opt.TimeFormat = d.TimeFormat

	var err error
	if d.From != "" {
		if opt.From, err = market.ParseTime(d.From); err != nil {
			return opt, fmt.Errorf("data.from: %w", err)
		}
	}
	if d.To != "" {
		if opt.To, err = market.ParseTime(d.To); err != nil {
			return opt, fmt.Errorf("data.to: %w", err)
		}
	}
	if opt.From != 0 && opt.To != 0 && !opt.From.Before(opt.To) {
		return opt, fmt.Errorf("data.from must be before data.to")
	}
	if d.Interval != "" {
		if opt.Interval, err = market.ParseInterval(d.Interval); err != nil {
			return opt, fmt.Errorf("data.interval: %w", err)
		}
	}
	return opt, nil
}

// NewCommission parses the commission setting. A trailing % reads the
// number as a percent. Empty means no commission and returns nil.
func (l LedgerConfig) NewCommission() (sim.Commission, error) {
	s := strings.TrimSpace(l.Commission)
	if s == "" {
		return nil, nil
	}
	var v any = s
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v = sim.Percent(strings.TrimSpace(pct))
	}
	c, err := sim.NewSimpleCommission(v)
	if err != nil {
		return nil, fmt.Errorf("ledger.commission: %w", err)
	}
	return c, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Strategy: StrategyConfig{
			Name:   "ema-cross",
			Params: strategies.Defaults(),
		},
		Ledger: LedgerConfig{
			Scale:   sim.DefaultScale,
			Workers: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
