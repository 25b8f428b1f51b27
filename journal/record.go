package journal

import (
	"encoding/json"
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/sim"
)

// NewSessionRecord flattens s for storage.
func NewSessionRecord(runID, title string, s *sim.Session) (SessionRecord, error) {
	meta, err := json.Marshal(s.Meta)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("encode meta of session %s: %w", s.ID, err)
	}
	direction := "short"
	if s.IsLong() {
		direction = "long"
	}
	rec := SessionRecord{
		RunID:        runID,
		SessionID:    s.ID,
		Title:        title,
		Direction:    direction,
		OpenedAt:     s.OpenedAt(),
		Base:         s.Base(),
		Quote:        s.Quote(),
		TakeProfit:   s.TakeProfit(),
		StopLoss:     s.StopLoss(),
		Transactions: s.Len(),
		Meta:         meta,
	}
	rec.ClosedAt, rec.Closed = s.ClosedAt()
	return rec, nil
}

// NewTransactionRecords returns the ledger of s with prices rounded to scale.
func NewTransactionRecords(runID string, s *sim.Session, scale int32) []TransactionRecord {
	txs := s.Transactions()
	out := make([]TransactionRecord, len(txs))
	for i, t := range txs {
		out[i] = TransactionRecord{
			RunID:     runID,
			SessionID: s.ID,
			Seq:       i,
			Time:      t.Time,
			Base:      t.Base,
			Quote:     t.Quote,
			Price:     t.PriceAt(scale),
		}
	}
	return out
}

// RecordOutput writes every session of a run, open ones included, with
// their transactions. It stops at the first error.
func RecordOutput(j Journal, out *backtest.Output) error {
	for _, s := range out.Sessions {
		rec, err := NewSessionRecord(out.RunID, out.Title, s)
		if err != nil {
			return err
		}
		if err := j.RecordSession(rec); err != nil {
			return err
		}
		for _, t := range NewTransactionRecords(out.RunID, s, out.Scale) {
			if err := j.RecordTransaction(t); err != nil {
				return err
			}
		}
	}
	return nil
}
