package delivery

import (
	"context"
	"crypto/subtle"

	dErrors "sahayak/pkg/domain-errors"
)

// Authenticator verifies a one-time code sent to the enumerator's phone.
type Authenticator interface {
	VerifyOTP(ctx context.Context, phone string, code string) error
}

// MockAuthenticator accepts a single fixed code. Field pilots run without an
// SMS gateway; production swaps in a real provider behind the same interface.
type MockAuthenticator struct {
	Code string
}

func (a MockAuthenticator) VerifyOTP(_ context.Context, _ string, code string) error {
	if subtle.ConstantTimeCompare([]byte(code), []byte(a.Code)) != 1 {
		return dErrors.New(dErrors.CodeUnauthorized, "incorrect OTP")
	}
	return nil
}
