package dice

import (
	"errors"
	"testing"
)

func TestRollDiceDeterministic(t *testing.T) {
	req := Request{
		Dice: []Spec{
			{Sides: 6, Count: 2},
			{Sides: 20, Count: 1},
		},
		Seed: 42,
	}

	first, err := RollDice(req)
	if err != nil {
		t.Fatalf("roll dice: %v", err)
	}
	second, err := RollDice(req)
	if err != nil {
		t.Fatalf("roll dice: %v", err)
	}

	if first.Total != second.Total {
		t.Fatalf("expected identical totals, got %d and %d", first.Total, second.Total)
	}
	if len(first.Rolls) != len(second.Rolls) {
		t.Fatalf("expected identical roll counts, got %d and %d", len(first.Rolls), len(second.Rolls))
	}
	for i := range first.Rolls {
		for j := range first.Rolls[i].Results {
			if first.Rolls[i].Results[j] != second.Rolls[i].Results[j] {
				t.Fatalf("expected identical die results at %d/%d", i, j)
			}
		}
	}
}

func TestRollDiceOrderingAndTotals(t *testing.T) {
	req := Request{
		Dice: []Spec{
			{Sides: 4, Count: 3},
			{Sides: 8, Count: 2},
		},
		Seed: 7,
	}

	result, err := RollDice(req)
	if err != nil {
		t.Fatalf("roll dice: %v", err)
	}

	if len(result.Rolls) != 2 {
		t.Fatalf("expected 2 rolls, got %d", len(result.Rolls))
	}
	if result.Rolls[0].Sides != 4 || result.Rolls[1].Sides != 8 {
		t.Fatalf("expected rolls in spec order, got %d then %d", result.Rolls[0].Sides, result.Rolls[1].Sides)
	}

	sum := 0
	for _, roll := range result.Rolls {
		rollSum := 0
		for _, value := range roll.Results {
			if value < 1 || value > roll.Sides {
				t.Fatalf("die result %d out of range for d%d", value, roll.Sides)
			}
			rollSum += value
		}
		if rollSum != roll.Total {
			t.Fatalf("expected roll total %d, got %d", rollSum, roll.Total)
		}
		sum += rollSum
	}
	if sum != result.Total {
		t.Fatalf("expected request total %d, got %d", sum, result.Total)
	}
}

func TestRollDiceErrors(t *testing.T) {
	if _, err := RollDice(Request{Seed: 1}); !errors.Is(err, ErrMissingDice) {
		t.Fatalf("expected ErrMissingDice, got %v", err)
	}
	if _, err := RollDice(Request{Dice: []Spec{{Sides: 0, Count: 1}}, Seed: 1}); !errors.Is(err, ErrInvalidDiceSpec) {
		t.Fatalf("expected ErrInvalidDiceSpec, got %v", err)
	}
	if _, err := RollDice(Request{Dice: []Spec{{Sides: 6, Count: -1}}, Seed: 1}); !errors.Is(err, ErrInvalidDiceSpec) {
		t.Fatalf("expected ErrInvalidDiceSpec, got %v", err)
	}
}
