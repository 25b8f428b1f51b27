package cmd

import (
	"fmt"

	"github.com/rustyeddy/backtester/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "Replay OHLC bars through a strategy and report the ledger",
	Long: `Backtester replays historical bars through a trading strategy.

It provides tools for:
  - Running strategies over one or more CSV bar files
  - Printing run statistics
  - Recording sessions and transactions to a CSV or SQLite journal
  - Generating and validating configuration files`,
	SilenceUsage: true,
}

var (
	cfgFile   string
	logLevel  string
	logFormat string

	logger = zap.NewNop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (TOML, YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format, overrides the config (console or json)")
}

// loadConfig reads --config, the environment and the log flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	l, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	logger = l
	return cfg, nil
}

// newLogger builds a zap logger writing to stderr.
func newLogger(c config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	switch c.Format {
	case "json":
		zc = zap.NewProductionConfig()
	case "", "console":
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}

	if c.Level != "" {
		lvl, err := zap.ParseAtomicLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = lvl
	}
	return zc.Build()
}
