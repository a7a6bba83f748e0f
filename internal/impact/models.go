// Package impact records field impact audits: how a beneficiary's income has
// moved since the original survey.
package impact

import (
	"time"

	"github.com/shopspring/decimal"

	"sahayak/internal/location"
)

// Audit is one completed impact audit. Photo, video and GPS are best-effort
// captures: rural connectivity and older devices drop any of them.
type Audit struct {
	ID             string               `json:"id"`
	BeneficiaryID  int64                `json:"beneficiaryId"`
	OriginalIncome decimal.Decimal      `json:"originalIncome"`
	CurrentIncome  decimal.Decimal      `json:"currentIncome"`
	IncomeChange   decimal.Decimal      `json:"incomeChange"`
	PhotoRef       *string              `json:"photoUri,omitempty"`
	VideoRef       *string              `json:"videoUri,omitempty"`
	GPS            *location.Coordinate `json:"gps,omitempty"`
	Timestamp      time.Time            `json:"timestamp"`
}

// SubmitRequest carries the audit form input. The baseline income comes from
// the survey registry, not the caller.
type SubmitRequest struct {
	BeneficiaryID int64                `json:"beneficiaryId"`
	CurrentIncome decimal.Decimal      `json:"currentIncome"`
	PhotoRef      *string              `json:"photoUri,omitempty"`
	VideoRef      *string              `json:"videoUri,omitempty"`
	GPS           *location.Coordinate `json:"gps,omitempty"`
}
