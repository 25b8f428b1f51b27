package backtest

import "errors"

var (
	ErrNoStrategy          = errors.New("backtest: strategy is required")
	ErrEmptyInput          = errors.New("backtest: composed frame has no rows")
	ErrMissingColumn       = errors.New("backtest: missing price column")
	ErrNullPrice           = errors.New("backtest: null price")
	ErrMissingSignalColumn = errors.New("backtest: missing signal column")
	ErrInvalidSignalType   = errors.New("backtest: signal column is not boolean")
	ErrMissingHandler      = errors.New("backtest: signal has no handler")
)
