package sim

import (
	"testing"

	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

// newBook returns a cursor at (ts, price) and an empty wallet.
func newBook(ts market.Time, price string, c Commission) (*Cursor, *Wallet) {
	cur := NewCursor(DefaultScale)
	cur.Set(ts, dec(price))
	return cur, NewWallet(c)
}
