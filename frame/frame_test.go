package frame

import (
	"testing"

	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolp(b bool) *bool { return &b }

func candles(closes ...int64) []market.Candle {
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		p := decimal.NewFromInt(c)
		out[i] = market.Candle{
			Time:   market.Time(1_600_000_000 + int64(i)*60),
			Open:   p,
			High:   p.Add(decimal.NewFromInt(1)),
			Low:    p.Sub(decimal.NewFromInt(1)),
			Close:  p,
			Volume: decimal.NewFromInt(10),
		}
	}
	return out
}

func TestNewRejectsUnsortedIndex(t *testing.T) {
	_, err := New([]market.Time{3, 2})
	assert.ErrorIs(t, err, ErrUnsorted)

	_, err = New([]market.Time{1, 1})
	assert.ErrorIs(t, err, ErrUnsorted)

	f, err := New([]market.Time{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())
}

func TestFromCandles(t *testing.T) {
	f, err := FromCandles(candles(20, 21, 22))
	require.NoError(t, err)

	assert.Equal(t, []string{Open, High, Low, Close, Volume}, f.Columns())

	r := f.Row(1)
	assert.Equal(t, 1, r.Index())
	assert.Equal(t, market.Time(1_600_000_060), r.Time())
	assert.True(t, r.Close().Equal(decimal.NewFromInt(21)))
	assert.True(t, r.High().Equal(decimal.NewFromInt(22)))
	assert.True(t, r.Low().Equal(decimal.NewFromInt(20)))
	assert.True(t, r.Open().Equal(decimal.NewFromInt(21)))
}

func TestAddValidatesColumns(t *testing.T) {
	f, err := FromCandles(candles(1, 2))
	require.NoError(t, err)

	assert.ErrorIs(t, f.Add(NewBool("entry", 3)), ErrLength)
	assert.ErrorIs(t, f.Add(NewDecimal(Close, 2)), ErrDuplicateColumn)
	assert.NoError(t, f.Add(NewBool("entry", 2)))
	assert.True(t, f.Has("entry"))
}

func TestColumnNulls(t *testing.T) {
	c := BoolOf("sig", nil, nil, boolp(true), boolp(false), nil)

	assert.Equal(t, KindBool, c.Kind())
	assert.Equal(t, 3, c.NullCount())
	assert.Equal(t, 2, c.FirstValid())

	v, ok := c.Bool(2)
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = c.Bool(0)
	assert.False(t, ok)

	c.SetNull(2)
	assert.True(t, c.IsNull(2))
	assert.Equal(t, 3, c.FirstValid())

	_, ok = c.Decimal(3)
	assert.False(t, ok, "wrong kind reads as missing")

	assert.Equal(t, -1, NewInt("empty", 4).FirstValid())
}

func TestColumnBitmapSpansWords(t *testing.T) {
	c := NewInt("wide", 130)
	c.SetInt(0, 1)
	c.SetInt(64, 2)
	c.SetInt(129, 3)

	assert.Equal(t, 127, c.NullCount())
	v, ok := c.Int(129)
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)
}

func TestSetWrongKindPanics(t *testing.T) {
	c := NewBool("entry", 1)
	assert.Panics(t, func() { c.SetDecimal(0, decimal.Zero) })
}

func TestSlice(t *testing.T) {
	f, err := FromCandles(candles(10, 11, 12, 13))
	require.NoError(t, err)
	require.NoError(t, f.Add(BoolOf("entry", nil, boolp(true), nil, boolp(false))))

	s := f.Slice(1)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, f.Time(1), s.Time(0))
	assert.Equal(t, f.Columns(), s.Columns())
	assert.True(t, s.Row(0).True("entry"))
	assert.False(t, s.Row(1).True("entry"))
	assert.False(t, s.Row(2).True("entry"))
	assert.True(t, s.Row(2).Close().Equal(decimal.NewFromInt(13)))

	// source frame is untouched
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, 0, f.Slice(10).Len())
}

func TestRowMissingColumn(t *testing.T) {
	f, err := FromCandles(candles(1))
	require.NoError(t, err)

	r := f.Row(0)
	_, ok := r.Decimal("ema")
	assert.False(t, ok)
	_, ok = r.Int("n")
	assert.False(t, ok)
	assert.False(t, r.True("entry"))
}
