package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/sim"
	"github.com/rustyeddy/backtester/strategies"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "ema-cross", cfg.Strategy.Name)
	assert.Equal(t, strategies.Defaults(), cfg.Strategy.Params)
	assert.Equal(t, sim.DefaultScale, cfg.Ledger.Scale)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "strategy alias", mutate: func(c *Config) { c.Strategy.Name = "hold" }},
		{
			name:   "unknown strategy",
			mutate: func(c *Config) { c.Strategy.Name = "martingale" },
			errMsg: "strategy.name",
		},
		{
			name:   "long delimiter",
			mutate: func(c *Config) { c.Data.Delimiter = ";;" },
			errMsg: "data.delimiter must be a single character",
		},
		{
			name:   "bad from",
			mutate: func(c *Config) { c.Data.From = "yesterday" },
			errMsg: "data.from",
		},
		{
			name:   "from after to",
			mutate: func(c *Config) { c.Data.From = "2024-02-01"; c.Data.To = "2024-01-01" },
			errMsg: "data.from must be before data.to",
		},
		{
			name:   "bad interval",
			mutate: func(c *Config) { c.Data.Interval = "fortnight" },
			errMsg: "data.interval",
		},
		{
			name:   "negative scale",
			mutate: func(c *Config) { c.Ledger.Scale = -1 },
			errMsg: "ledger.scale must not be negative",
		},
		{
			name:   "negative workers",
			mutate: func(c *Config) { c.Ledger.Workers = -2 },
			errMsg: "ledger.workers must not be negative",
		},
		{
			name:   "bad commission",
			mutate: func(c *Config) { c.Ledger.Commission = "cheap" },
			errMsg: "ledger.commission",
		},
		{
			name:   "negative commission",
			mutate: func(c *Config) { c.Ledger.Commission = "-0.1" },
			errMsg: "ledger.commission",
		},
		{
			name:   "unknown journal",
			mutate: func(c *Config) { c.Journal.Type = "postgres" },
			errMsg: "journal.type",
		},
		{
			name:   "csv journal without files",
			mutate: func(c *Config) { c.Journal.Type = "csv"; c.Journal.SessionsFile = "s.csv" },
			errMsg: "journal sessions_file and transactions_file required for CSV type",
		},
		{
			name:   "sqlite journal without path",
			mutate: func(c *Config) { c.Journal.Type = "sqlite" },
			errMsg: "journal db_path required for SQLite type",
		},
		{
			name:   "bad log format",
			mutate: func(c *Config) { c.Log.Format = "xml" },
			errMsg: "log.format",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCSVOptions(t *testing.T) {
	t.Parallel()

	d := DataConfig{
		Delimiter:  ";",
		TimeFormat: "ms",
		From:       "2024-01-01",
		To:         "2024-01-02 12:00",
		Interval:   "H1",
	}
	opt, err := d.CSVOptions()
	require.NoError(t, err)
	assert.Equal(t, ';', opt.Delimiter)
	assert.Equal(t, market.FormatMillis, opt.TimeFormat)
	assert.Equal(t, market.MustParseTime("2024-01-01"), opt.From)
	assert.Equal(t, market.MustParseTime("2024-01-02T12:00"), opt.To)
	assert.Equal(t, market.Hour, opt.Interval)

	opt, err = DataConfig{}.CSVOptions()
	require.NoError(t, err)
	assert.Zero(t, opt)
}

func TestNewCommission(t *testing.T) {
	t.Parallel()

	c, err := LedgerConfig{}.NewCommission()
	require.NoError(t, err)
	assert.Nil(t, c)

	tests := []struct {
		in   string
		rate string
	}{
		{"0.001", "0.001"},
		{"0.1%", "0.001"},
		{" 2 % ", "0.02"},
	}
	for _, tt := range tests {
		c, err := LedgerConfig{Commission: tt.in}.NewCommission()
		require.NoError(t, err, tt.in)
		sc, ok := c.(sim.SimpleCommission)
		require.True(t, ok, tt.in)
		assert.Truef(t, decimal.RequireFromString(tt.rate).Equal(sc.Rate), "%s: got %s", tt.in, sc.Rate)
	}

	_, err = LedgerConfig{Commission: "x%"}.NewCommission()
	assert.Error(t, err)
}

func sampleConfig() *Config {
	cfg := Default()
	cfg.Data.Files = []string{"bars/eurusd.csv", "bars/gbpusd.csv"}
	cfg.Data.Interval = "1h"
	cfg.Strategy.Params.ATRPeriod = 14
	cfg.Strategy.Params.Short = true
	cfg.Ledger.Commission = "0.1%"
	cfg.Journal = JournalConfig{Type: "sqlite", DBPath: "journal.db"}
	cfg.Log.Format = "json"
	return cfg
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"yml format", ".yml"},
		{"toml format", ".toml"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := sampleConfig()
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial.toml")
	data := `
[data]
files = ["a.csv"]

[strategy]
name = "ema-cross"

[strategy.params]
fast_period = 5
slow_period = 20
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv"}, cfg.Data.Files)
	assert.Equal(t, 5, cfg.Strategy.Params.FastPeriod)
	assert.Equal(t, 20, cfg.Strategy.Params.SlowPeriod)
	assert.Equal(t, "4", cfg.Strategy.Params.TakeProfitPct)
	assert.Equal(t, 4, cfg.Ledger.Workers)
}

func TestLoadJSONFallback(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg.conf")
	data := "{\n\t\"strategy\": {\"name\": \"noop\"},\n\t\"ledger\": {\"scale\": 8, \"workers\": 1}\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "noop", cfg.Strategy.Name)
	assert.Equal(t, int32(8), cfg.Ledger.Scale)
}

func TestLoadInvalidFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: [\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "parse config")

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy:\n  name: martingale\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BACKTESTER_DATA_FILES", "x.csv, y.csv,")
	t.Setenv("BACKTESTER_STRATEGY_NAME", "open-once")
	t.Setenv("BACKTESTER_STRATEGY_FAST_PERIOD", "3")
	t.Setenv("BACKTESTER_STRATEGY_SHORT", "true")
	t.Setenv("BACKTESTER_LEDGER_SCALE", "6")
	t.Setenv("BACKTESTER_LEDGER_WORKERS", "not-a-number")
	t.Setenv("BACKTESTER_LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "base.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy:\n  name: noop\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.csv", "y.csv"}, cfg.Data.Files)
	assert.Equal(t, "open-once", cfg.Strategy.Name)
	assert.Equal(t, 3, cfg.Strategy.Params.FastPeriod)
	assert.True(t, cfg.Strategy.Params.Short)
	assert.Equal(t, int32(6), cfg.Ledger.Scale)
	assert.Equal(t, 4, cfg.Ledger.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("BACKTESTER_STRATEGY_NAME", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ema-cross", cfg.Strategy.Name)
}
