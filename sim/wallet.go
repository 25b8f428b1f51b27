package sim

import "github.com/shopspring/decimal"

// Wallet is the running sum of every transaction applied during a run.
type Wallet struct {
	base       decimal.Decimal
	quote      decimal.Decimal
	fees       decimal.Decimal
	commission Commission
}

// NewWallet returns an empty wallet. A nil commission charges nothing.
func NewWallet(c Commission) *Wallet {
	return &Wallet{commission: c}
}

// Apply adds t to the totals, deducting the commission for t from quote.
func (w *Wallet) Apply(t Transaction) {
	w.base = w.base.Add(t.Base)
	w.quote = w.quote.Add(t.Quote)
	if w.commission != nil {
		fee := w.commission.For(t)
		w.quote = w.quote.Sub(fee)
		w.fees = w.fees.Add(fee)
	}
}

func (w *Wallet) Base() decimal.Decimal  { return w.base }
func (w *Wallet) Quote() decimal.Decimal { return w.quote }

// Fees is the total commission deducted so far.
func (w *Wallet) Fees() decimal.Decimal { return w.fees }

func (w *Wallet) Commission() Commission { return w.commission }
