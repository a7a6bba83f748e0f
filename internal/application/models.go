// Package application handles beneficiary self-service scheme applications.
package application

import "time"

// Status is the verification state of an application.
type Status string

const (
	StatusPendingVerification Status = "PENDING_VERIFICATION"
	StatusApproved            Status = "APPROVED"
	StatusRejected            Status = "REJECTED"
)

// Record is a submitted scheme application. The full Aadhaar number never
// appears in the clear: only the masked form and the sealed ciphertext are
// stored.
type Record struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	MaskedAadhaar string     `json:"aadhaar"`
	SealedAadhaar string     `json:"sealed_aadhaar"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address,omitempty"`
	Status        Status     `json:"status"`
	SubmittedAt   time.Time  `json:"timestamp"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

// SubmitRequest carries the self-service application form input.
type SubmitRequest struct {
	Name    string `json:"name"`
	Aadhaar string `json:"aadhaar"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// ReviewOutcome is an enumerator's decision on a pending application.
type ReviewOutcome string

const (
	OutcomeApprove ReviewOutcome = "approve"
	OutcomeReject  ReviewOutcome = "reject"
)
