package khata

import "math"

// LoanEligibilityThreshold is the score at which the loan-certificate action
// unlocks. The decision itself belongs to the caller.
const LoanEligibilityThreshold = 75

// consistencyBonus rewards a sustained logging habit.
const (
	bonusThreshold   = 30
	consistencyBonus = 25
	pointsPerEntry   = 2.5
	maxScore         = 100
)

// Score maps the ledger entry count to a bounded [0,100] trust score.
// Monotonic non-decreasing in entryCount; saturates at 100. Recomputed from
// the current ledger length on every read - no stored state.
func Score(entryCount int) int {
	if entryCount <= 0 {
		return 0
	}
	bonus := 0.0
	if entryCount >= bonusThreshold {
		bonus = consistencyBonus
	}
	score := math.Round(float64(entryCount)*pointsPerEntry + bonus)
	return int(math.Min(maxScore, score))
}
