package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	sessionHeader     = []string{"run_id", "session_id", "title", "direction", "opened_at", "closed_at", "base", "quote", "take_profit", "stop_loss", "transactions", "meta"}
	transactionHeader = []string{"run_id", "session_id", "seq", "time", "base", "quote", "price"}
)

// CSVJournal writes sessions and transactions to two CSV files.
type CSVJournal struct {
	sessions     *csv.Writer
	transactions *csv.Writer
	sf, tf       *os.File
}

func NewCSV(sessionsPath, transactionsPath string) (*CSVJournal, error) {
	sf, err := os.Create(sessionsPath)
	if err != nil {
		return nil, err
	}
	tf, err := os.Create(transactionsPath)
	if err != nil {
		_ = sf.Close()
		return nil, err
	}

	j := &CSVJournal{
		sessions:     csv.NewWriter(sf),
		transactions: csv.NewWriter(tf),
		sf:           sf,
		tf:           tf,
	}
	if err := j.write(j.sessions, sessionHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.write(j.transactions, transactionHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordSession(s SessionRecord) error {
	closed := ""
	if s.Closed {
		closed = formatTime(s.ClosedAt.UTC())
	}
	return j.write(j.sessions, []string{
		s.RunID,
		s.SessionID,
		s.Title,
		s.Direction,
		formatTime(s.OpenedAt.UTC()),
		closed,
		s.Base.String(),
		s.Quote.String(),
		nullString(s.TakeProfit),
		nullString(s.StopLoss),
		strconv.Itoa(s.Transactions),
		string(s.Meta),
	})
}

func (j *CSVJournal) RecordTransaction(t TransactionRecord) error {
	return j.write(j.transactions, []string{
		t.RunID,
		t.SessionID,
		strconv.Itoa(t.Seq),
		formatTime(t.Time.UTC()),
		t.Base.String(),
		t.Quote.String(),
		t.Price.String(),
	})
}

func (j *CSVJournal) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write csv journal: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Close flushes both writers and closes both files, reporting every failure.
func (j *CSVJournal) Close() error {
	j.sessions.Flush()
	j.transactions.Flush()
	return errors.Join(
		j.sessions.Error(),
		j.transactions.Error(),
		j.sf.Close(),
		j.tf.Close(),
	)
}

func formatTime(t time.Time) string { return t.Format(time.RFC3339) }

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
