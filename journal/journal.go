package journal

import (
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// SessionRecord is the flattened view of one session as stored by a Journal.
type SessionRecord struct {
	RunID     string
	SessionID string
	Title     string
	Direction string // long / short

	OpenedAt market.Time
	ClosedAt market.Time
	Closed   bool

	Base       decimal.Decimal
	Quote      decimal.Decimal
	TakeProfit decimal.NullDecimal
	StopLoss   decimal.NullDecimal

	Transactions int
	Meta         []byte // JSON object
}

// TransactionRecord is one ledger entry of a session. Seq is the position
// of the entry inside its session, starting at zero.
type TransactionRecord struct {
	RunID     string
	SessionID string
	Seq       int
	Time      market.Time
	Base      decimal.Decimal
	Quote     decimal.Decimal
	Price     decimal.Decimal
}

type Journal interface {
	RecordSession(SessionRecord) error
	RecordTransaction(TransactionRecord) error
	Close() error
}
