package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Device    string    `json:"device,omitempty"`
}

type AuditEvent string

const (
	EventBeneficiaryRegistered AuditEvent = "beneficiary_registered"
	EventBeneficiariesCleared  AuditEvent = "beneficiaries_cleared"
	EventRecordsSynced         AuditEvent = "records_synced"
	EventApplicationSubmitted  AuditEvent = "application_submitted"
	EventApplicationReviewed   AuditEvent = "application_reviewed"
	EventKhataEntryAdded       AuditEvent = "khata_entry_added"
	EventAuditSubmitted        AuditEvent = "audit_submitted"
	EventOTPVerified           AuditEvent = "otp_verified"
	EventDeliveryConfirmed     AuditEvent = "delivery_confirmed"
)
