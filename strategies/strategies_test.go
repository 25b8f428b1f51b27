package strategies

import (
	"testing"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closes dips, rallies, sells off and recovers: EMA(2)/EMA(4) crosses up on
// row 7, down on row 13 and up again on row 21.
var closes = []int64{10, 9, 8, 7, 6, 5, 6, 8, 10, 12, 14, 13, 11, 9, 7, 5, 4, 3, 2, 1, 2, 4, 6, 8, 10}

func flatBars(t *testing.T, vals ...int64) *frame.Frame {
	t.Helper()
	candles := make([]market.Candle, len(vals))
	for i, v := range vals {
		p := decimal.NewFromInt(v)
		candles[i] = market.Candle{Time: market.Time(1_600_000_000 + 3600*i), Open: p, High: p, Low: p, Close: p}
	}
	f, err := frame.FromCandles(candles)
	require.NoError(t, err)
	return f
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func emaParams() Params {
	return Params{FastPeriod: 2, SlowPeriod: 4, Size: "1"}
}

func runStrategy(t *testing.T, st backtest.Strategy) *backtest.Output {
	t.Helper()
	tr, err := backtest.New(st)
	require.NoError(t, err)
	out, err := tr.Run()
	require.NoError(t, err)
	return out
}

func metaString(t *testing.T, s *sim.Session, key string) string {
	t.Helper()
	v, ok := s.Meta.Get(key)
	require.True(t, ok, "meta %q missing", key)
	return v.String()
}

func TestByName(t *testing.T) {
	t.Parallel()

	src := flatBars(t, closes...)
	tests := []struct {
		name string
		want any
	}{
		{name: "noop", want: &Noop{}},
		{name: "None", want: &Noop{}},
		{name: "ema-cross", want: &EMACross{}},
		{name: " emacross ", want: &EMACross{}},
		{name: "open-once", want: &OpenOnce{}},
		{name: "hold", want: &OpenOnce{}},
	}
	for _, tt := range tests {
		st, err := ByName(tt.name, src, Defaults())
		require.NoError(t, err, tt.name)
		assert.IsType(t, tt.want, st, tt.name)
	}

	_, err := ByName("martingale", src, Defaults())
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.Contains(t, err.Error(), "ema-cross")
	assert.ErrorIs(t, Check("martingale"), ErrUnknownStrategy)
	assert.NoError(t, Check("Hold"))

	assert.Equal(t, []string{"ema-cross", "noop", "open-once"}, Names())
}

func TestNewEMACrossValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{name: "zero_period", mutate: func(p *Params) { p.FastPeriod = 0 }},
		{name: "fast_not_below_slow", mutate: func(p *Params) { p.FastPeriod = 4 }},
		{name: "bad_size", mutate: func(p *Params) { p.Size = "lots" }},
		{name: "bad_quote_size", mutate: func(p *Params) { p.QuoteSize = "abc" }},
		{name: "bad_take_profit", mutate: func(p *Params) { p.TakeProfitPct = "x" }},
		{name: "bad_atr_multiple", mutate: func(p *Params) { p.ATRPeriod = 3; p.ATRMultiple = "?" }},
		{name: "bad_adx_min", mutate: func(p *Params) { p.ADXPeriod = 2; p.ADXMin = "strong" }},
	}
	for _, tt := range tests {
		p := emaParams()
		tt.mutate(&p)
		_, err := NewEMACross(nil, p)
		assert.Error(t, err, tt.name)
	}
}

func TestEMACrossCompose(t *testing.T) {
	t.Parallel()

	src := flatBars(t, closes...)
	st, err := NewEMACross(src, emaParams())
	require.NoError(t, err)

	f, err := st.Compose()
	require.NoError(t, err)
	for _, name := range []string{colFast, colSlow, backtest.Entry, sigExit} {
		assert.True(t, f.Has(name), name)
	}
	assert.False(t, src.Has(colFast), "source bars are not modified")

	entry, _ := f.Column(backtest.Entry)
	for _, i := range []int{7, 21} {
		v, ok := entry.Bool(i)
		assert.True(t, ok && v, "entry on row %d", i)
	}
	exit, _ := f.Column(sigExit)
	v, ok := exit.Bool(13)
	assert.True(t, ok && v)
}

func TestEMACrossRun(t *testing.T) {
	t.Parallel()

	st, err := NewEMACross(flatBars(t, closes...), emaParams())
	require.NoError(t, err)
	out := runStrategy(t, st)

	assert.Equal(t, "EMA Cross 2/4", out.Title)
	assert.Contains(t, out.Description, "EMA(2) crosses EMA(4)")
	assert.Equal(t, []string{backtest.Entry, sigExit}, out.Signals)
	// warm-up rows before the first cross value are trimmed
	assert.Equal(t, len(closes)-4, out.Frame.Len())

	require.Len(t, out.Sessions, 2)
	first := out.Sessions[0]
	assert.True(t, first.IsClosed())
	assert.Equal(t, "cross", metaString(t, first, "exit"))
	txs := first.Transactions()
	require.Len(t, txs, 2)
	assertDecimal(t, "8", txs[0].Price())
	assertDecimal(t, "9", txs[1].Price())

	assert.True(t, out.Sessions[1].IsOpen())
	// +1 on the first trade, 4 paid for the open one
	assertDecimal(t, "-3", out.Wallet.Quote())
}

func TestEMACrossADXFilter(t *testing.T) {
	t.Parallel()

	// ADX(2) is about 58.3 on the row 7 cross and 57.7 on the row 21 cross.
	p := emaParams()
	p.ADXPeriod = 2
	p.ADXMin = "58"
	st, err := NewEMACross(flatBars(t, closes...), p)
	require.NoError(t, err)
	out := runStrategy(t, st)

	require.Len(t, out.Sessions, 1)
	s := out.Sessions[0]
	assert.True(t, s.IsClosed())
	v, ok := s.Meta.Get("adx")
	require.True(t, ok)
	adx, _ := v.Number()
	assert.InDelta(t, 58.3333, adx.InexactFloat64(), 1e-3)
	assertDecimal(t, "1", out.Wallet.Quote())

	p.ADXMin = "101"
	st, err = NewEMACross(flatBars(t, closes...), p)
	require.NoError(t, err)
	assert.Empty(t, runStrategy(t, st).Sessions)
}

func TestEMACrossBrackets(t *testing.T) {
	t.Parallel()

	p := emaParams()
	p.TakeProfitPct = "4"
	p.StopLossPct = "2"
	st, err := NewEMACross(flatBars(t, closes...), p)
	require.NoError(t, err)
	out := runStrategy(t, st)

	require.Len(t, out.Sessions, 2)
	for _, s := range out.Sessions {
		assert.True(t, s.IsClosed())
		assert.Equal(t, "take-profit", metaString(t, s, "exit"))
	}
	assertDecimal(t, "8.32", out.Sessions[0].Transactions()[1].Price())
	assertDecimal(t, "4.16", out.Sessions[1].Transactions()[1].Price())
	assertDecimal(t, "0.48", out.Wallet.Quote())
}

func TestEMACrossShort(t *testing.T) {
	t.Parallel()

	p := emaParams()
	p.Short = true
	st, err := NewEMACross(flatBars(t, closes...), p)
	require.NoError(t, err)
	out := runStrategy(t, st)

	require.Len(t, out.Sessions, 1)
	s := out.Sessions[0]
	assert.False(t, s.IsLong())
	assert.True(t, s.IsClosed())
	assertDecimal(t, "5", out.Wallet.Quote())
}

func TestEMACrossQuoteSize(t *testing.T) {
	t.Parallel()

	p := emaParams()
	p.QuoteSize = "80"
	st, err := NewEMACross(flatBars(t, closes...), p)
	require.NoError(t, err)
	out := runStrategy(t, st)

	require.NotEmpty(t, out.Sessions)
	assertDecimal(t, "10", out.Sessions[0].Transactions()[0].Base)
}

func TestOpenOnce(t *testing.T) {
	t.Parallel()

	st, err := NewOpenOnce(flatBars(t, 10, 12, 15), Params{Size: "2"})
	require.NoError(t, err)
	out := runStrategy(t, st)

	assert.Equal(t, "Buy and hold", out.Title)
	require.Len(t, out.Sessions, 1)
	assert.True(t, out.Sessions[0].IsClosed())
	assertDecimal(t, "10", out.Wallet.Quote())
	assertDecimal(t, "0", out.Wallet.Base())
}

func TestNoop(t *testing.T) {
	t.Parallel()

	out := runStrategy(t, NewNoop(flatBars(t, closes...)))
	assert.Empty(t, out.Sessions)
	assert.Equal(t, "Noop", out.Title)
	assert.Equal(t, len(closes), out.Frame.Len())
}
