package stats

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func null(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(4)
}

// Print writes a human readable report of s.
func Print(w io.Writer, s Stats) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s\n", s.Title)
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Run ID:        %s\n", s.RunID)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", s.Start)
	fmt.Fprintf(w, "Stop:          %s\n", s.Stop)
	fmt.Fprintf(w, "Length:        %s\n", s.Period)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sessions")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Sessions:      %d (%d open)\n", s.Sessions, s.OpenSessions)
	fmt.Fprintf(w, "Longs/Shorts:  %d/%d\n", s.Longs, s.Shorts)
	fmt.Fprintf(w, "Success:       %d\n", s.Success)
	fmt.Fprintf(w, "Failure:       %d\n", s.Failure)
	fmt.Fprintf(w, "Success/Fail:  %s\n", null(s.SuccessPerFailure))
	fmt.Fprintf(w, "Streaks:       %d wins, %d losses\n", s.SuccessStreakMax, s.FailureStreakMax)
	fmt.Fprintf(w, "Avg Holding:   %s\n", s.AverageHoldingPeriod)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "PnL:           %s\n", s.PnL.StringFixed(4))
	fmt.Fprintf(w, "Commission:    %s\n", s.Commission.StringFixed(4))
	fmt.Fprintf(w, "Net PnL:       %s\n", s.NetPnL.StringFixed(4))
	fmt.Fprintf(w, "Largest Win:   %s\n", null(s.LargestWin))
	fmt.Fprintf(w, "Largest Loss:  %s\n", null(s.LargestLoss))
	fmt.Fprintf(w, "Median Win:    %s\n", null(s.SuccessPnLMedian))
	fmt.Fprintf(w, "Median Loss:   %s\n", null(s.FailurePnLMedian))
	fmt.Fprintf(w, "High Mark:     %s\n", s.HighWatermark.StringFixed(4))
	fmt.Fprintf(w, "Max Drawdown:  %s (%s)\n", s.MaxDrawdown.StringFixed(4), s.MaxDrawdownDuration)
	fmt.Fprintf(w, "RoMaD:         %s\n", null(s.Romad))
	fmt.Fprintln(w)
}
