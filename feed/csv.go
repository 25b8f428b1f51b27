// Package feed loads historical bars into frames for the trader.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

var (
	ErrNoData    = errors.New("feed: no bars")
	ErrBadHeader = errors.New("feed: bad header")
	ErrBadRow    = errors.New("feed: bad row")
	ErrGap       = errors.New("feed: gap in bars")
)

// CSVOptions controls how a bar file is read. The zero value reads a comma
// separated file, detects the time format from the first row and keeps every
// bar.
type CSVOptions struct {
	Delimiter rune

	// TimeFormat is market.FormatSeconds, market.FormatMillis, a Go layout,
	// or empty to detect it from the first data row.
	TimeFormat string

	// From and To bound the bars kept to [From, To). Zero is unbounded.
	From, To market.Time

	// Interval, when set, requires consecutive bars to be exactly one
	// interval apart.
	Interval market.Interval
}

// LoadCSV reads bars from a header-led CSV file:
//
//	time,open,high,low,close[,volume]
//
// The first column is always the time. Price columns are found by header
// name, falling back to position when the header does not name them.
func LoadCSV(path string, opt CSVOptions) ([]market.Candle, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	bars, err := ReadCSV(fh, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// LoadFrame is LoadCSV into a frame.
func LoadFrame(path string, opt CSVOptions) (*frame.Frame, error) {
	bars, err := LoadCSV(path, opt)
	if err != nil {
		return nil, err
	}
	return frame.FromCandles(bars)
}

type columns struct {
	open, high, low, close, volume int
}

func ReadCSV(r io.Reader, opt CSVOptions) ([]market.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	format := opt.TimeFormat
	var out []market.Candle
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if format == "" {
			if format, err = market.DetectTimeFormat(row[0]); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrBadRow, line, err)
			}
		}

		c, err := parseRow(row, cols, format)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRow, line, err)
		}
		if opt.From != 0 && c.Time < opt.From {
			continue
		}
		if opt.To != 0 && c.Time >= opt.To {
			continue
		}

		if n := len(out); n > 0 && opt.Interval > 0 {
			if d := c.Time.Sub(out[n-1].Time); d != opt.Interval.Delta() {
				return nil, fmt.Errorf("%w: %s after %s is %s, want %s",
					ErrGap, c.Time, out[n-1].Time, d, opt.Interval)
			}
		}
		out = append(out, c)
	}

	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

func mapHeader(header []string) (columns, error) {
	cols := columns{open: -1, high: -1, low: -1, close: -1, volume: -1}
	for i, h := range header {
		if i == 0 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "open", "o":
			cols.open = i
		case "high", "h":
			cols.high = i
		case "low", "l":
			cols.low = i
		case "close", "c":
			cols.close = i
		case "volume", "vol", "v":
			cols.volume = i
		}
	}

	if cols.open >= 0 && cols.high >= 0 && cols.low >= 0 && cols.close >= 0 {
		return cols, nil
	}
	// Any unresolved price column means the header is not usable by name.
	if len(header) < 5 {
		return cols, fmt.Errorf("%w: missing one of open/high/low/close in %q", ErrBadHeader, strings.Join(header, ","))
	}
	cols = columns{open: 1, high: 2, low: 3, close: 4, volume: -1}
	if len(header) > 5 {
		cols.volume = 5
	}
	return cols, nil
}

func parseRow(row []string, cols columns, format string) (market.Candle, error) {
	ts, err := market.ParseTimeFormat(row[0], format)
	if err != nil {
		return market.Candle{}, err
	}
	c := market.Candle{Time: ts}

	fields := []struct {
		idx int
		dst *decimal.Decimal
		req bool
	}{
		{cols.open, &c.Open, true},
		{cols.high, &c.High, true},
		{cols.low, &c.Low, true},
		{cols.close, &c.Close, true},
		{cols.volume, &c.Volume, false},
	}
	for _, f := range fields {
		if f.idx < 0 || f.idx >= len(row) {
			if f.req {
				return market.Candle{}, fmt.Errorf("short row: %d fields", len(row))
			}
			continue
		}
		s := strings.TrimSpace(row[f.idx])
		if s == "" && !f.req {
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return market.Candle{}, fmt.Errorf("field %d %q: %w", f.idx+1, s, err)
		}
		*f.dst = d
	}

	if c.High.LessThan(c.Low) || !c.Range(c.Open) || !c.Range(c.Close) {
		return market.Candle{}, fmt.Errorf("open %s close %s outside low %s high %s", c.Open, c.Close, c.Low, c.High)
	}
	return c, nil
}
