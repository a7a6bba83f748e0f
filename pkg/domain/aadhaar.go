// Package domain holds identifier types shared across services.
package domain

import (
	"strings"

	dErrors "sahayak/pkg/domain-errors"
)

// Aadhaar is a 12-digit Indian national identity number.
type Aadhaar string

const aadhaarLength = 12

// Validate checks the number is exactly 12 digits.
func (a Aadhaar) Validate() error {
	s := string(a)
	if len(s) != aadhaarLength {
		return dErrors.New(dErrors.CodeValidation, "aadhaar must be 12 digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return dErrors.New(dErrors.CodeValidation, "aadhaar must contain only digits")
		}
	}
	return nil
}

// Mask returns the redacted display form: only the last 4 digits survive.
func (a Aadhaar) Mask() string {
	s := string(a)
	if len(s) < 4 {
		return strings.Repeat("X", len(s))
	}
	return "XXXX-XXXX-" + s[len(s)-4:]
}

// Last4 returns the exposed tail of the number.
func (a Aadhaar) Last4() string {
	s := string(a)
	if len(s) < 4 {
		return s
	}
	return s[len(s)-4:]
}
