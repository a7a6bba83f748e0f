// Package beneficiary manages the enumerator's offline survey records and
// their sync lifecycle.
package beneficiary

import (
	"time"

	"github.com/shopspring/decimal"

	id "sahayak/pkg/domain"
)

// SyncStatus is the record's upload state. The only transition is
// pending -> synced, applied by the sync reconciler.
type SyncStatus string

const (
	StatusPending SyncStatus = "pending"
	StatusSynced  SyncStatus = "synced"
)

// Record is one offline beneficiary survey. JSON field names match the
// mobile client's storage layout so device databases stay inspectable.
type Record struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Aadhaar   id.Aadhaar       `json:"aadhaar"`
	Income    *decimal.Decimal `json:"income,omitempty"`
	PhotoRef  string           `json:"photoUri"`
	CreatedAt time.Time        `json:"timestamp"`
	Status    SyncStatus       `json:"status"`
}

// RegisterRequest carries the survey form input.
type RegisterRequest struct {
	Name     string           `json:"name"`
	Aadhaar  id.Aadhaar       `json:"aadhaar"`
	Income   *decimal.Decimal `json:"income,omitempty"`
	PhotoRef string           `json:"photo_ref"`
}
