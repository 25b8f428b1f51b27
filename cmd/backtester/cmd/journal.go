package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rustyeddy/backtester/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded backtest sessions",
	Long: `Query and display session records from a SQLite journal.

Subcommands:
  runs     - List recorded runs
  sessions - List the sessions of a run
  session  - Show one session and its transactions

Examples:
  backtester journal runs
  backtester journal sessions <run-id>
  backtester journal session <session-id>`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalSessionsCmd = &cobra.Command{
	Use:   "sessions <run-id>",
	Short: "List the sessions of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalSessions,
}

var journalSessionCmd = &cobra.Command{
	Use:   "session <session-id>",
	Short: "Show a session as Org",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalSession,
}

var (
	journalDBPath string
	journalOrg    bool
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalSessionsCmd)
	journalCmd.AddCommand(journalSessionCmd)

	journalCmd.PersistentFlags().StringVar(&journalDBPath, "db", "./backtester.sqlite", "path to SQLite journal DB")
	journalSessionsCmd.Flags().BoolVar(&journalOrg, "org", false, "print every session as Org")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tTITLE\tSESSIONS\tSTART")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.RunID, r.Title, r.Sessions, r.Start)
	}
	return tw.Flush()
}

func runJournalSessions(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := cmd.Context()
	recs, err := j.ListSessions(ctx, args[0])
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}

	w := cmd.OutOrStdout()
	if journalOrg {
		txs, err := j.ListTransactions(ctx, args[0])
		if err != nil {
			return fmt.Errorf("query transactions: %w", err)
		}
		bySession := make(map[string][]journal.TransactionRecord)
		for _, t := range txs {
			bySession[t.SessionID] = append(bySession[t.SessionID], t)
		}
		fmt.Fprintln(w, journal.FormatSessionsOrg(recs, bySession))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tDIR\tOPENED\tCLOSED\tQUOTE\tTXS")
	for _, r := range recs {
		closed := "open"
		if r.Closed {
			closed = r.ClosedAt.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			r.SessionID, r.Direction, r.OpenedAt, closed, r.Quote, r.Transactions)
	}
	return tw.Flush()
}

func runJournalSession(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := cmd.Context()
	rec, err := j.GetSession(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	txs, err := j.SessionTransactions(ctx, rec.SessionID)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatSessionOrg(rec, txs))
	return nil
}
