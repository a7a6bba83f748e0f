package delivery

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	dErrors "sahayak/pkg/domain-errors"
)

// ScanKind selects which QR code the device is scanning.
type ScanKind string

const (
	ScanBeneficiary ScanKind = "beneficiary"
	ScanAsset       ScanKind = "asset"
)

// Scanner resolves a QR scan into a code.
type Scanner interface {
	Scan(ctx context.Context, kind ScanKind) (string, error)
}

// SimulatedScanner fabricates plausible codes, standing in for the camera
// during pilots.
type SimulatedScanner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedScanner(seed int64) *SimulatedScanner {
	return &SimulatedScanner{rng: rand.New(rand.NewSource(seed))}
}

func (s *SimulatedScanner) Scan(_ context.Context, kind ScanKind) (string, error) {
	s.mu.Lock()
	n := s.rng.Intn(10000)
	s.mu.Unlock()

	switch kind {
	case ScanBeneficiary:
		return fmt.Sprintf("BEN-%04d", n), nil
	case ScanAsset:
		return fmt.Sprintf("AST-%04d", n), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "unknown scan kind")
	}
}
