package domain

import apperrors "github.com/louisbranch/arc-engine/internal/errors"

var (
	// ErrBudgetExhausted indicates the session's generation budget ran out.
	ErrBudgetExhausted = apperrors.New(apperrors.CodeBudgetExhausted, "generation budget exhausted")
	// ErrInvalidBudgetCost indicates a non-positive consumption amount.
	ErrInvalidBudgetCost = apperrors.New(apperrors.CodeBudgetInvalidCost, "budget cost must be positive")
)

// Budget tracks generation-unit consumption for a session.
// Consumed only ever grows and never exceeds Total.
type Budget struct {
	Consumed int
	Total    int
}

// Remaining returns the unconsumed portion of the budget.
func (b Budget) Remaining() int {
	return b.Total - b.Consumed
}

// CanAfford reports whether cost units remain available.
func (b Budget) CanAfford(cost int) bool {
	return cost > 0 && b.Consumed+cost <= b.Total
}

// Consume deducts cost units from the budget.
func (b *Budget) Consume(cost int) error {
	if cost <= 0 {
		return ErrInvalidBudgetCost
	}
	if b.Consumed+cost > b.Total {
		return ErrBudgetExhausted
	}
	b.Consumed += cost
	return nil
}
