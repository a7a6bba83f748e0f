package impact

import (
	"context"

	"github.com/shopspring/decimal"

	"sahayak/internal/beneficiary"
	"sahayak/internal/recordstore"
	dErrors "sahayak/pkg/domain-errors"
)

// SurveyRegistry resolves baseline incomes from the device's own offline
// survey records.
type SurveyRegistry struct {
	records *recordstore.Collection[beneficiary.Record]
}

func NewSurveyRegistry(kv recordstore.KV) *SurveyRegistry {
	return &SurveyRegistry{
		records: recordstore.NewCollection[beneficiary.Record](kv, recordstore.KeyOfflineBeneficiaries),
	}
}

func (r *SurveyRegistry) BaselineIncome(ctx context.Context, beneficiaryID int64) (decimal.Decimal, error) {
	records, err := r.records.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	for _, record := range records {
		if record.ID == beneficiaryID {
			if record.Income == nil {
				return decimal.Zero, nil
			}
			return *record.Income, nil
		}
	}
	return decimal.Zero, dErrors.New(dErrors.CodeNotFound, "beneficiary not in survey registry")
}
