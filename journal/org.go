package journal

import (
	"fmt"
	"strings"
)

// FormatSessionOrg renders a session and its ledger as an Org-mode block.
// Structured facts go in the PROPERTIES drawer; the ledger becomes a table.
func FormatSessionOrg(s SessionRecord, txs []TransactionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Session: %s %s (%s)\n", s.Title, s.Direction, shortID(s.SessionID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", s.SessionID)
	fmt.Fprintf(&b, ":RUN_ID: %s\n", s.RunID)
	fmt.Fprintf(&b, ":DIRECTION: %s\n", s.Direction)
	fmt.Fprintf(&b, ":OPENED_AT: %s\n", formatTime(s.OpenedAt.UTC()))
	if s.Closed {
		fmt.Fprintf(&b, ":CLOSED_AT: %s\n", formatTime(s.ClosedAt.UTC()))
	}
	fmt.Fprintf(&b, ":BASE: %s\n", s.Base)
	fmt.Fprintf(&b, ":QUOTE: %s\n", s.Quote)
	if s.TakeProfit.Valid {
		fmt.Fprintf(&b, ":TAKE_PROFIT: %s\n", s.TakeProfit.Decimal)
	}
	if s.StopLoss.Valid {
		fmt.Fprintf(&b, ":STOP_LOSS: %s\n", s.StopLoss.Decimal)
	}
	if len(s.Meta) > 0 && string(s.Meta) != "{}" {
		fmt.Fprintf(&b, ":META: %s\n", s.Meta)
	}
	b.WriteString(":END:\n")

	if len(txs) > 0 {
		b.WriteString("\n*** Transactions\n")
		b.WriteString("| # | Time | Base | Quote | Price |\n")
		b.WriteString("|---+------+------+-------+-------|\n")
		for _, t := range txs {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				t.Seq, formatTime(t.Time.UTC()), t.Base, t.Quote, t.Price)
		}
	}
	b.WriteString("\n*** Review\n- \n")
	return b.String()
}

// FormatSessionsOrg renders several sessions separated by blank lines.
// txs maps a session ID to its ledger.
func FormatSessionsOrg(sessions []SessionRecord, txs map[string][]TransactionRecord) string {
	var b strings.Builder
	for i, s := range sessions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatSessionOrg(s, txs[s.SessionID]))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
