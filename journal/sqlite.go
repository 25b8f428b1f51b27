package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies Schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordSession(s SessionRecord) error {
	var closedAt sql.NullInt64
	if s.Closed {
		closedAt = sql.NullInt64{Int64: s.ClosedAt.Unix(), Valid: true}
	}
	meta := string(s.Meta)
	if meta == "" {
		meta = "{}"
	}
	_, err := j.db.Exec(`
		INSERT INTO sessions
		(session_id, run_id, title, direction, opened_at, closed_at, base, quote, take_profit, stop_loss, transactions, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SessionID, s.RunID, s.Title, s.Direction, s.OpenedAt.Unix(), closedAt,
		s.Base, s.Quote, s.TakeProfit, s.StopLoss, s.Transactions, meta,
	)
	if err != nil {
		return fmt.Errorf("record session %s: %w", s.SessionID, err)
	}
	return nil
}

func (j *SQLite) RecordTransaction(t TransactionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO transactions
		(run_id, session_id, seq, ts, base, quote, price)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.SessionID, t.Seq, t.Time.Unix(), t.Base, t.Quote, t.Price,
	)
	if err != nil {
		return fmt.Errorf("record transaction %s/%d: %w", t.SessionID, t.Seq, err)
	}
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
