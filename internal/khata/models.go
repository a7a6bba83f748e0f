// Package khata manages the beneficiary's daily-sales ledger and the trust
// score derived from it.
package khata

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one ledger line. Entries are append-only and kept most-recent-first.
type Entry struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// Summary is the dashboard view of the ledger.
type Summary struct {
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	EntryCount    int             `json:"entry_count"`
	TrustScore    int             `json:"trust_score"`
	LoanEligible  bool            `json:"loan_eligible"`
}

// defaultDescription is applied when the beneficiary leaves the field empty.
const defaultDescription = "Daily Sale"
