package backtest

import "github.com/rustyeddy/backtester/frame"

// minTrimRows is the smallest frame the warm-up trim touches.
const minTrimRows = 10

// warmup returns the number of leading rows to drop. A column counts only
// when its nulls form a pure leading prefix that ends after the first row
// and no later than the midpoint. The cut is the longest such prefix.
func warmup(f *frame.Frame) int {
	n := f.Len()
	if n < minTrimRows {
		return 0
	}

	cut := 0
	for _, name := range f.Columns() {
		c, _ := f.Column(name)
		nulls := c.NullCount()
		if nulls == 0 {
			continue
		}
		first := c.FirstValid()
		if first <= 0 || first > n/2 {
			continue
		}
		if nulls != first {
			// scattered gaps after the warm-up
			continue
		}
		if first > cut {
			cut = first
		}
	}
	return cut
}

func trim(f *frame.Frame) (*frame.Frame, int) {
	cut := warmup(f)
	if cut == 0 {
		return f, 0
	}
	return f.Slice(cut), cut
}
