// Package delivery confirms asset hand-overs to beneficiaries: OTP-verified
// session, QR scans of the beneficiary card and asset tag, and a geo-fence
// check at the moment of confirmation.
package delivery

import (
	"time"

	"sahayak/internal/location"
)

// StatusDelivered is the only terminal state a confirmed delivery takes.
const StatusDelivered = "DELIVERED"

// Record is one confirmed hand-over.
type Record struct {
	ID              string              `json:"id"`
	BeneficiaryCode string              `json:"beneficiaryId"`
	AssetCode       string              `json:"assetBarcode"`
	EnumeratorID    string              `json:"enumeratorId"`
	GPS             location.Coordinate `json:"gps"`
	Timestamp       time.Time           `json:"timestamp"`
	Status          string              `json:"status"`
}

// ConfirmRequest carries the confirmation input. GPS comes from the device at
// the moment of hand-over; without it the delivery stays locked.
type ConfirmRequest struct {
	BeneficiaryCode string               `json:"beneficiaryId"`
	AssetCode       string               `json:"assetBarcode"`
	GPS             *location.Coordinate `json:"gps,omitempty"`
}
