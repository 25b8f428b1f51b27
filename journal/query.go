package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rustyeddy/backtester/market"
)

var ErrNotFound = errors.New("journal: not found")

const sessionColumns = `session_id, run_id, title, direction, opened_at, closed_at,
	base, quote, take_profit, stop_loss, transactions, meta`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (SessionRecord, error) {
	var (
		rec      SessionRecord
		opened   int64
		closedAt sql.NullInt64
		meta     string
	)
	err := row.Scan(
		&rec.SessionID,
		&rec.RunID,
		&rec.Title,
		&rec.Direction,
		&opened,
		&closedAt,
		&rec.Base,
		&rec.Quote,
		&rec.TakeProfit,
		&rec.StopLoss,
		&rec.Transactions,
		&meta,
	)
	if err != nil {
		return SessionRecord{}, err
	}
	rec.OpenedAt = market.Time(opened)
	if closedAt.Valid {
		rec.Closed = true
		rec.ClosedAt = market.Time(closedAt.Int64)
	}
	rec.Meta = []byte(meta)
	return rec, nil
}

// GetSession returns a single session record by ID.
func (j *SQLite) GetSession(ctx context.Context, sessionID string) (SessionRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+sessionColumns+`
		FROM sessions
		WHERE session_id = ?`, sessionID)

	rec, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SessionRecord{}, fmt.Errorf("%w: session %q", ErrNotFound, sessionID)
		}
		return SessionRecord{}, err
	}
	return rec, nil
}

// ListSessions returns the sessions of a run in the order they were opened.
func (j *SQLite) ListSessions(ctx context.Context, runID string) ([]SessionRecord, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+sessionColumns+`
		FROM sessions
		WHERE run_id = ?
		ORDER BY opened_at ASC, session_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTransactions returns every ledger entry of a run by time. Entries at
// the same time keep session then sequence order.
func (j *SQLite) ListTransactions(ctx context.Context, runID string) ([]TransactionRecord, error) {
	return j.listTransactions(ctx, `WHERE t.run_id = ?`, runID)
}

// SessionTransactions returns the ledger of one session in sequence order.
func (j *SQLite) SessionTransactions(ctx context.Context, sessionID string) ([]TransactionRecord, error) {
	return j.listTransactions(ctx, `WHERE t.session_id = ?`, sessionID)
}

func (j *SQLite) listTransactions(ctx context.Context, where string, arg any) ([]TransactionRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT t.run_id, t.session_id, t.seq, t.ts, t.base, t.quote, t.price
		FROM transactions t
		JOIN sessions s ON s.session_id = t.session_id
		`+where+`
		ORDER BY t.ts ASC, s.opened_at ASC, t.session_id ASC, t.seq ASC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		var (
			rec TransactionRecord
			ts  int64
		)
		if err := rows.Scan(
			&rec.RunID,
			&rec.SessionID,
			&rec.Seq,
			&ts,
			&rec.Base,
			&rec.Quote,
			&rec.Price,
		); err != nil {
			return nil, err
		}
		rec.Time = market.Time(ts)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RunSummary is one row of ListRuns.
type RunSummary struct {
	RunID    string
	Title    string
	Sessions int
	Start    market.Time
}

// ListRuns lists every recorded run, newest first.
func (j *SQLite) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, MAX(title), COUNT(*), MIN(opened_at)
		FROM sessions
		GROUP BY run_id
		ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rec   RunSummary
			start int64
		)
		if err := rows.Scan(&rec.RunID, &rec.Title, &rec.Sessions, &start); err != nil {
			return nil, err
		}
		rec.Start = market.Time(start)
		out = append(out, rec)
	}
	return out, rows.Err()
}
