// Package stats summarises a backtest Output. It only reads the ledger.
package stats

import (
	"sort"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
)

// Stats are computed over closed sessions; open sessions are only counted.
// Optional figures are null when there is nothing to measure.
type Stats struct {
	RunID string
	Title string

	Start  market.Time
	Stop   market.Time
	Period market.TimeDelta

	// PnL is the sum of the closed sessions' quote deltas before commission.
	PnL        decimal.Decimal
	Commission decimal.Decimal
	NetPnL     decimal.Decimal

	Sessions     int
	OpenSessions int
	Longs        int
	Shorts       int
	Success      int
	Failure      int

	LargestWin       decimal.NullDecimal
	LargestLoss      decimal.NullDecimal
	SuccessPnLMedian decimal.NullDecimal
	FailurePnLMedian decimal.NullDecimal
	SuccessStreakMax int
	FailureStreakMax int

	HighWatermark        decimal.Decimal
	MaxDrawdown          decimal.Decimal
	MaxDrawdownDuration  market.TimeDelta
	Romad                decimal.NullDecimal
	SuccessPerFailure    decimal.NullDecimal
	AverageHoldingPeriod market.TimeDelta
}

// trade is a closed session reduced to what the figures need.
type trade struct {
	opened, closed market.Time
	pnl            decimal.Decimal
}

func FromOutput(out *backtest.Output) Stats {
	scale := out.Scale
	if scale <= 0 {
		scale = sim.DefaultScale
	}

	st := Stats{RunID: out.RunID, Title: out.Title}
	if out.Frame != nil && out.Frame.Len() > 0 {
		st.Start = out.Frame.Time(0)
		st.Stop = out.Frame.Time(out.Frame.Len() - 1)
		st.Period = st.Stop.Sub(st.Start)
	}
	if out.Wallet != nil {
		st.Commission = out.Wallet.Fees()
	}

	var trades []trade
	for _, s := range out.Sessions {
		st.Sessions++
		if s.IsLong() {
			st.Longs++
		} else {
			st.Shorts++
		}
		closed, ok := s.ClosedAt()
		if !ok {
			st.OpenSessions++
			continue
		}
		trades = append(trades, trade{opened: s.OpenedAt(), closed: closed, pnl: s.Quote()})
	}
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].closed < trades[j].closed })

	var wins, losses []decimal.Decimal
	var held market.TimeDelta
	for _, tr := range trades {
		st.PnL = st.PnL.Add(tr.pnl)
		held += tr.closed.Sub(tr.opened)
		switch {
		case tr.pnl.IsPositive():
			st.Success++
			wins = append(wins, tr.pnl)
			if !st.LargestWin.Valid || tr.pnl.GreaterThan(st.LargestWin.Decimal) {
				st.LargestWin = decimal.NewNullDecimal(tr.pnl)
			}
		case tr.pnl.IsNegative():
			st.Failure++
			losses = append(losses, tr.pnl)
			if !st.LargestLoss.Valid || tr.pnl.LessThan(st.LargestLoss.Decimal) {
				st.LargestLoss = decimal.NewNullDecimal(tr.pnl)
			}
		}
	}
	if len(trades) > 0 {
		st.AverageHoldingPeriod = held.Div(int64(len(trades)))
	}
	st.NetPnL = st.PnL.Sub(st.Commission)

	st.SuccessPnLMedian = median(wins, scale)
	st.FailurePnLMedian = median(losses, scale)
	st.SuccessStreakMax, st.FailureStreakMax = streaks(trades)
	st.HighWatermark, st.MaxDrawdown, st.MaxDrawdownDuration = drawdown(trades, st.Stop)

	if st.MaxDrawdown.IsPositive() {
		st.Romad = decimal.NewNullDecimal(st.PnL.DivRound(st.MaxDrawdown, scale))
	}
	if st.Failure > 0 {
		st.SuccessPerFailure = decimal.NewNullDecimal(
			decimal.NewFromInt(int64(st.Success)).DivRound(decimal.NewFromInt(int64(st.Failure)), scale))
	}
	return st
}

func median(vals []decimal.Decimal, scale int32) decimal.NullDecimal {
	if len(vals) == 0 {
		return decimal.NullDecimal{}
	}
	s := append([]decimal.Decimal(nil), vals...)
	sort.Slice(s, func(i, j int) bool { return s[i].LessThan(s[j]) })
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return decimal.NewNullDecimal(s[mid])
	}
	return decimal.NewNullDecimal(s[mid-1].Add(s[mid]).DivRound(decimal.NewFromInt(2), scale))
}

// streaks counts consecutive wins and losses in close order. A flat trade
// ends both.
func streaks(trades []trade) (win, loss int) {
	var w, l int
	for _, tr := range trades {
		switch {
		case tr.pnl.IsPositive():
			w++
			l = 0
		case tr.pnl.IsNegative():
			l++
			w = 0
		default:
			w, l = 0, 0
		}
		win = max(win, w)
		loss = max(loss, l)
	}
	return win, loss
}

// drawdown walks the realised equity curve, starting at zero. Duration runs
// from a peak to the first close back at or above it, or to stop.
func drawdown(trades []trade, stop market.Time) (high, maxDD decimal.Decimal, maxDur market.TimeDelta) {
	equity := decimal.Zero
	var peakAt market.Time
	inDD := false
	if len(trades) > 0 {
		peakAt = trades[0].opened
	}
	for _, tr := range trades {
		equity = equity.Add(tr.pnl)
		if equity.GreaterThanOrEqual(high) {
			if inDD {
				maxDur = max(maxDur, tr.closed.Sub(peakAt))
			}
			high = equity
			peakAt = tr.closed
			inDD = false
			continue
		}
		inDD = true
		if dd := high.Sub(equity); dd.GreaterThan(maxDD) {
			maxDD = dd
		}
	}
	if inDD {
		maxDur = max(maxDur, stop.Sub(peakAt))
	}
	return high, maxDD, maxDur
}
