// Package dice provides deterministic dice rolling for mechanics resolution.
package dice

import apperrors "github.com/louisbranch/arc-engine/internal/errors"

var (
	// ErrMissingDice indicates no dice specifications were provided.
	ErrMissingDice = apperrors.New(apperrors.CodeDiceMissing, "at least one dice spec is required")
	// ErrInvalidDiceSpec indicates a dice spec with non-positive sides or count.
	ErrInvalidDiceSpec = apperrors.New(apperrors.CodeDiceInvalidSpec, "dice spec sides and count must be positive")
)

// Spec describes a homogeneous group of dice to roll.
type Spec struct {
	Sides int
	Count int
}

// Request describes a full dice roll request.
type Request struct {
	Dice []Spec
	Seed int64
}

// Roll captures the results for a single dice specification.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Result captures the results for a full request.
type Result struct {
	Rolls []Roll
	Total int
}
