package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/feed"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/stats"
	"github.com/rustyeddy/backtester/strategies"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run [bars.csv...]",
	Short: "Backtest a strategy over one or more bar files",
	Long: `Run a strategy over historical bars and print the statistics of each run.

Bar files come from the arguments, --data, or data.files in the config, in
that order of precedence. Each file is replayed independently; up to
ledger.workers files run at the same time.

Examples:
  backtester run -s ema-cross data/eurusd-h1.csv
  backtester run -c backtest.toml --db journal.sqlite`,
	RunE: runRun,
}

var (
	runData     []string
	runStrategy string
	runWorkers  int
	runDBPath   string
	runFrom     string
	runTo       string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVarP(&runData, "data", "d", nil, "bar CSV files (repeatable)")
	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "", "strategy name, overrides the config ("+joinNames()+")")
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 0, "runs replayed concurrently, overrides the config")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "record the runs to this SQLite journal")
	runCmd.Flags().StringVar(&runFrom, "from", "", "first bar time to keep")
	runCmd.Flags().StringVar(&runTo, "to", "", "keep bars before this time")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch {
	case len(args) > 0:
		cfg.Data.Files = args
	case len(runData) > 0:
		cfg.Data.Files = runData
	}
	if runStrategy != "" {
		cfg.Strategy.Name = runStrategy
	}
	if cmd.Flags().Changed("workers") {
		cfg.Ledger.Workers = runWorkers
	}
	if runDBPath != "" {
		cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: runDBPath}
	}
	if runFrom != "" {
		cfg.Data.From = runFrom
	}
	if runTo != "" {
		cfg.Data.To = runTo
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(cfg.Data.Files) == 0 {
		return fmt.Errorf("no bar files: pass them as arguments, with --data, or in data.files")
	}

	jobs, err := buildJobs(cfg)
	if err != nil {
		return err
	}

	logger.Info("running backtests",
		zap.String("strategy", cfg.Strategy.Name),
		zap.Int("files", len(jobs)),
		zap.Int("workers", cfg.Ledger.Workers))

	outs, err := backtest.RunAll(cmd.Context(), jobs, cfg.Ledger.Workers)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}

	w := cmd.OutOrStdout()
	if err := report(w, j, jobs, outs); err != nil {
		return err
	}

	switch cfg.Journal.Type {
	case "csv":
		fmt.Fprintf(w, "Results saved to:\n  - %s\n  - %s\n", cfg.Journal.SessionsFile, cfg.Journal.TransactionsFile)
	case "sqlite":
		fmt.Fprintf(w, "Results saved to: %s\n", cfg.Journal.DBPath)
	}
	return nil
}

// report prints the stats of every run and records it to j when j is not
// nil. j is closed before returning.
func report(w io.Writer, j journal.Journal, jobs []backtest.Job, outs []*backtest.Output) (err error) {
	if j != nil {
		defer func() {
			if cerr := j.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close journal: %w", cerr)
			}
		}()
	}

	for i, out := range outs {
		fmt.Fprintf(w, "== %s\n", jobs[i].Name)
		stats.Print(w, stats.FromOutput(out))
		fmt.Fprintln(w)

		if j == nil {
			continue
		}
		if err := journal.RecordOutput(j, out); err != nil {
			return fmt.Errorf("record %s: %w", jobs[i].Name, err)
		}
	}
	return nil
}

// buildJobs loads every bar file and binds a fresh strategy to each.
func buildJobs(cfg *config.Config) ([]backtest.Job, error) {
	opt, err := cfg.Data.CSVOptions()
	if err != nil {
		return nil, err
	}
	commission, err := cfg.Ledger.NewCommission()
	if err != nil {
		return nil, err
	}

	jobs := make([]backtest.Job, 0, len(cfg.Data.Files))
	for _, path := range cfg.Data.Files {
		f, err := feed.LoadFrame(path, opt)
		if err != nil {
			return nil, err
		}
		st, err := strategies.ByName(cfg.Strategy.Name, f, cfg.Strategy.Params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		jobs = append(jobs, backtest.Job{
			Name:     path,
			Strategy: st,
			Options: []backtest.Option{
				backtest.WithLogger(logger.With(zap.String("data", path))),
				backtest.WithCommission(commission),
				backtest.WithScale(cfg.Ledger.Scale),
			},
		})
	}
	return jobs, nil
}

// openJournal returns nil when journaling is off.
func openJournal(c config.JournalConfig) (journal.Journal, error) {
	switch c.Type {
	case "csv":
		return journal.NewCSV(c.SessionsFile, c.TransactionsFile)
	case "sqlite":
		return journal.NewSQLite(c.DBPath)
	default:
		return nil, nil
	}
}

func joinNames() string {
	return strings.Join(strategies.Names(), ", ")
}
