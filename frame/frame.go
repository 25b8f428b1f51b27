// Package frame is the time-indexed columnar table that strategies compose
// and the trader replays.
package frame

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// Column names every replayable frame carries.
const (
	Open   = "open"
	High   = "high"
	Low    = "low"
	Close  = "close"
	Volume = "volume"
)

var (
	ErrUnsorted        = errors.New("frame index is not strictly ascending")
	ErrLength          = errors.New("column length does not match index")
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Frame holds an ascending, duplicate-free time index and named columns of
// the same length, kept in insertion order.
type Frame struct {
	index []market.Time
	cols  map[string]*Column
	order []string
}

// New returns an empty frame over index.
func New(index []market.Time) (*Frame, error) {
	for i := 1; i < len(index); i++ {
		if index[i] <= index[i-1] {
			return nil, fmt.Errorf("%w: row %d (%s) after %s", ErrUnsorted, i, index[i], index[i-1])
		}
	}
	idx := make([]market.Time, len(index))
	copy(idx, index)
	return &Frame{index: idx, cols: make(map[string]*Column)}, nil
}

// FromCandles builds open/high/low/close/volume columns from bars.
func FromCandles(candles []market.Candle) (*Frame, error) {
	index := make([]market.Time, len(candles))
	for i, c := range candles {
		index[i] = c.Time
	}
	f, err := New(index)
	if err != nil {
		return nil, err
	}

	n := len(candles)
	o, h, l, cl, v := NewDecimal(Open, n), NewDecimal(High, n), NewDecimal(Low, n), NewDecimal(Close, n), NewDecimal(Volume, n)
	for i, c := range candles {
		o.SetDecimal(i, c.Open)
		h.SetDecimal(i, c.High)
		l.SetDecimal(i, c.Low)
		cl.SetDecimal(i, c.Close)
		v.SetDecimal(i, c.Volume)
	}
	for _, c := range []*Column{o, h, l, cl, v} {
		if err := f.Add(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Frame) Len() int { return len(f.index) }

func (f *Frame) Time(i int) market.Time { return f.index[i] }

// Index returns a copy of the time index.
func (f *Frame) Index() []market.Time {
	out := make([]market.Time, len(f.index))
	copy(out, f.index)
	return out
}

// Add appends a column. Its length must match the index.
func (f *Frame) Add(c *Column) error {
	if c.Len() != len(f.index) {
		return fmt.Errorf("%w: column %q has %d rows, index has %d", ErrLength, c.Name(), c.Len(), len(f.index))
	}
	if _, ok := f.cols[c.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name())
	}
	f.cols[c.Name()] = c
	f.order = append(f.order, c.Name())
	return nil
}

// Column looks up a column by name.
func (f *Frame) Column(name string) (*Column, bool) {
	c, ok := f.cols[name]
	return c, ok
}

func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Columns lists column names in insertion order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Slice returns a new frame holding rows [from, Len()).
func (f *Frame) Slice(from int) *Frame {
	if from < 0 {
		from = 0
	}
	if from > len(f.index) {
		from = len(f.index)
	}
	out := &Frame{
		index: append([]market.Time(nil), f.index[from:]...),
		cols:  make(map[string]*Column, len(f.cols)),
		order: append([]string(nil), f.order...),
	}
	for name, c := range f.cols {
		out.cols[name] = c.slice(from)
	}
	return out
}

// Row returns a read-only view of row i.
func (f *Frame) Row(i int) Row { return Row{f: f, i: i} }

// Row is one bar of a frame, as handed to strategy callbacks.
type Row struct {
	f *Frame
	i int
}

func (r Row) Index() int { return r.i }

func (r Row) Time() market.Time { return r.f.index[r.i] }

func (r Row) Open() decimal.Decimal  { return r.must(Open) }
func (r Row) High() decimal.Decimal  { return r.must(High) }
func (r Row) Low() decimal.Decimal   { return r.must(Low) }
func (r Row) Close() decimal.Decimal { return r.must(Close) }

// Decimal reads a decimal column; ok is false when the column is missing,
// of another kind, or null on this row.
func (r Row) Decimal(name string) (decimal.Decimal, bool) {
	c, ok := r.f.cols[name]
	if !ok {
		return decimal.Decimal{}, false
	}
	return c.Decimal(r.i)
}

func (r Row) Int(name string) (int64, bool) {
	c, ok := r.f.cols[name]
	if !ok {
		return 0, false
	}
	return c.Int(r.i)
}

func (r Row) Bool(name string) (bool, bool) {
	c, ok := r.f.cols[name]
	if !ok {
		return false, false
	}
	return c.Bool(r.i)
}

// True reports whether a boolean column is set and true on this row.
// Null counts as not set.
func (r Row) True(name string) bool {
	v, ok := r.Bool(name)
	return ok && v
}

func (r Row) must(name string) decimal.Decimal {
	v, _ := r.Decimal(name)
	return v
}
