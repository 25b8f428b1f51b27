package journal

// Decimals are kept as TEXT so nothing is lost to float conversion.
// Times are epoch seconds.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id   TEXT PRIMARY KEY,
	run_id       TEXT NOT NULL,
	title        TEXT NOT NULL,
	direction    TEXT NOT NULL,
	opened_at    INTEGER NOT NULL,
	closed_at    INTEGER,
	base         TEXT NOT NULL,
	quote        TEXT NOT NULL,
	take_profit  TEXT,
	stop_loss    TEXT,
	transactions INTEGER NOT NULL,
	meta         TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS transactions (
	run_id     TEXT NOT NULL,
	session_id TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	ts         INTEGER NOT NULL,
	base       TEXT NOT NULL,
	quote      TEXT NOT NULL,
	price      TEXT NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_sessions_run ON sessions(run_id, opened_at);
CREATE INDEX IF NOT EXISTS idx_transactions_run ON transactions(run_id, ts);
`
