package journal

import (
	"testing"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const t0 = market.Time(1_700_000_000)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// sampleOutput builds a run with one closed long session (buy 2 at 10,
// sell at 12) and one open short session with brackets.
func sampleOutput(t *testing.T) *backtest.Output {
	t.Helper()
	cur := sim.NewCursor(sim.DefaultScale)
	w := sim.NewWallet(nil)

	cur.Set(t0, dec("10"))
	long := sim.NewSession(cur, w)
	require.NoError(t, long.Position().Increase(2))
	long.Meta.Set("reason", sim.String("cross"))
	cur.Set(t0+60, dec("12"))
	long.Position().Close()

	short := sim.NewSession(cur, w)
	require.NoError(t, short.Position().Decrease(sim.Quote(6)))
	require.NoError(t, short.SetTakeProfit(dec("11")))
	require.NoError(t, short.SetStopLoss(sim.Percent(5)))

	return &backtest.Output{
		RunID:    "RUN1",
		Title:    "Sample",
		Sessions: sim.Sessions{long, short},
		Wallet:   w,
		Scale:    sim.DefaultScale,
	}
}

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	j, err := NewSQLite(t.TempDir() + "/journal.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}
