package application

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sahayak/internal/audit"
	"sahayak/internal/recordstore"
	dErrors "sahayak/pkg/domain-errors"
	"sahayak/pkg/secrets"
)

type ApplicationServiceSuite struct {
	suite.Suite
	kv      *recordstore.InMemoryKV
	cipher  *secrets.Cipher
	trail   *audit.MemoryPublisher
	service *Service
}

func TestApplicationServiceSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceSuite))
}

func (s *ApplicationServiceSuite) SetupTest() {
	var err error
	s.cipher, err = secrets.NewCipher(bytes.Repeat([]byte("k"), secrets.KeySize))
	s.Require().NoError(err)

	s.kv = recordstore.NewInMemoryKV()
	s.trail = audit.NewMemoryPublisher()
	s.service = New(s.kv, s.cipher, WithAuditPublisher(s.trail))
}

func validSubmit() SubmitRequest {
	return SubmitRequest{
		Name:    "Ramesh Kumar",
		Aadhaar: "123456789012",
		Phone:   "9876543210",
		Address: "Ward 4, Rampur",
	}
}

func (s *ApplicationServiceSuite) TestSubmitMasksAndSealsAadhaar() {
	record, err := s.service.Submit(context.Background(), validSubmit())
	s.Require().NoError(err)

	s.Equal("XXXX-XXXX-9012", record.MaskedAadhaar)
	s.Equal(StatusPendingVerification, record.Status)
	s.NotEmpty(record.ID)

	// The full number is recoverable only through the cipher.
	s.NotContains(record.SealedAadhaar, "123456789012")
	opened, err := s.cipher.Open(record.SealedAadhaar)
	s.Require().NoError(err)
	s.Equal("123456789012", opened)
}

func (s *ApplicationServiceSuite) TestSubmitValidation() {
	ctx := context.Background()

	tests := map[string]func(r *SubmitRequest){
		"missing name":  func(r *SubmitRequest) { r.Name = " " },
		"short aadhaar": func(r *SubmitRequest) { r.Aadhaar = "1234" },
		"short phone":   func(r *SubmitRequest) { r.Phone = "98765" },
		"phone letters": func(r *SubmitRequest) { r.Phone = "987654321a" },
	}
	for name, mutate := range tests {
		req := validSubmit()
		mutate(&req)
		_, err := s.service.Submit(ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation), name)
	}

	pending, err := s.service.Pending(ctx)
	s.NoError(err)
	s.Empty(pending)
}

func (s *ApplicationServiceSuite) TestSubmitOverwritesSelfApplication() {
	ctx := context.Background()

	first, err := s.service.Submit(ctx, validSubmit())
	s.Require().NoError(err)

	second := validSubmit()
	second.Name = "Sita Devi"
	latest, err := s.service.Submit(ctx, second)
	s.Require().NoError(err)

	// The device keeps exactly one self application: the latest.
	self, err := s.service.Self(ctx)
	s.Require().NoError(err)
	s.Equal(latest.ID, self.ID)
	s.NotEqual(first.ID, self.ID)

	// Both submissions remain queued for verification.
	pending, err := s.service.Pending(ctx)
	s.Require().NoError(err)
	s.Len(pending, 2)
}

func (s *ApplicationServiceSuite) TestSelfWithoutSubmission() {
	_, err := s.service.Self(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ApplicationServiceSuite) TestReview() {
	ctx := context.Background()
	record, err := s.service.Submit(ctx, validSubmit())
	s.Require().NoError(err)

	reviewed, err := s.service.Review(ctx, record.ID, OutcomeApprove)
	s.Require().NoError(err)
	s.Equal(StatusApproved, reviewed.Status)
	s.NotNil(reviewed.ReviewedAt)

	// Decisions are final.
	_, err = s.service.Review(ctx, record.ID, OutcomeReject)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ApplicationServiceSuite) TestReviewValidation() {
	ctx := context.Background()
	record, err := s.service.Submit(ctx, validSubmit())
	s.Require().NoError(err)

	_, err = s.service.Review(ctx, record.ID, "escalate")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.Review(ctx, "missing-id", OutcomeReject)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ApplicationServiceSuite) TestSubmitEmitsAuditEvent() {
	_, err := s.service.Submit(context.Background(), validSubmit())
	s.Require().NoError(err)

	events := s.trail.Events()
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventApplicationSubmitted), events[0].Action)
}
