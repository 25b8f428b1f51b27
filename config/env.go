package config

import (
	"os"
	"strconv"
	"strings"
)

// applyEnvOverrides overwrites fields whose BACKTESTER_* variable is set and
// parses. Unparsable numbers and bools are ignored.
func applyEnvOverrides(cfg *Config) {
	setStringSlice(&cfg.Data.Files, "BACKTESTER_DATA_FILES")
	setStr(&cfg.Data.Delimiter, "BACKTESTER_DATA_DELIMITER")
	setStr(&cfg.Data.TimeFormat, "BACKTESTER_DATA_TIME_FORMAT")
	setStr(&cfg.Data.From, "BACKTESTER_DATA_FROM")
	setStr(&cfg.Data.To, "BACKTESTER_DATA_TO")
	setStr(&cfg.Data.Interval, "BACKTESTER_DATA_INTERVAL")

	p := &cfg.Strategy.Params
	setStr(&cfg.Strategy.Name, "BACKTESTER_STRATEGY_NAME")
	setInt(&p.FastPeriod, "BACKTESTER_STRATEGY_FAST_PERIOD")
	setInt(&p.SlowPeriod, "BACKTESTER_STRATEGY_SLOW_PERIOD")
	setStr(&p.Size, "BACKTESTER_STRATEGY_SIZE")
	setStr(&p.QuoteSize, "BACKTESTER_STRATEGY_QUOTE_SIZE")
	setStr(&p.TakeProfitPct, "BACKTESTER_STRATEGY_TAKE_PROFIT_PCT")
	setStr(&p.StopLossPct, "BACKTESTER_STRATEGY_STOP_LOSS_PCT")
	setInt(&p.ATRPeriod, "BACKTESTER_STRATEGY_ATR_PERIOD")
	setStr(&p.ATRMultiple, "BACKTESTER_STRATEGY_ATR_MULTIPLE")
	setInt(&p.ADXPeriod, "BACKTESTER_STRATEGY_ADX_PERIOD")
	setStr(&p.ADXMin, "BACKTESTER_STRATEGY_ADX_MIN")
	setBool(&p.Short, "BACKTESTER_STRATEGY_SHORT")

	setInt32(&cfg.Ledger.Scale, "BACKTESTER_LEDGER_SCALE")
	setStr(&cfg.Ledger.Commission, "BACKTESTER_LEDGER_COMMISSION")
	setInt(&cfg.Ledger.Workers, "BACKTESTER_LEDGER_WORKERS")

	setStr(&cfg.Journal.Type, "BACKTESTER_JOURNAL_TYPE")
	setStr(&cfg.Journal.SessionsFile, "BACKTESTER_JOURNAL_SESSIONS_FILE")
	setStr(&cfg.Journal.TransactionsFile, "BACKTESTER_JOURNAL_TRANSACTIONS_FILE")
	setStr(&cfg.Journal.DBPath, "BACKTESTER_JOURNAL_DB_PATH")

	setStr(&cfg.Log.Level, "BACKTESTER_LOG_LEVEL")
	setStr(&cfg.Log.Format, "BACKTESTER_LOG_FORMAT")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
