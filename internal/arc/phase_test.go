package arc

import "testing"

func TestComputePhaseBands(t *testing.T) {
	tests := []struct {
		name      string
		turnCount int
		want      Phase
	}{
		{"turn 0", 0, PhaseSetup},
		{"turn 1", 1, PhaseSetup},
		{"band edge setup", 5, PhaseSetup},
		{"turn 6", 6, PhaseRising},
		{"turn 10", 10, PhaseRising},
		{"band edge rising", 20, PhaseRising},
		{"turn 21", 21, PhaseMidpoint},
		{"band edge midpoint", 30, PhaseMidpoint},
		{"turn 31", 31, PhaseClimax},
		{"band edge climax", 42, PhaseClimax},
		{"turn 43", 43, PhaseResolution},
		{"turn 49", 49, PhaseResolution},
		{"ceiling", 50, PhaseResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase, _ := ComputePhase(tt.turnCount, false)
			if phase != tt.want {
				t.Fatalf("expected phase %s at turn %d, got %s", tt.want, tt.turnCount, phase)
			}
		})
	}
}

func TestComputePhaseEarlyResolutionGate(t *testing.T) {
	// Objective completion before the minimum resolution turn has no effect.
	phase, _ := ComputePhase(10, true)
	if phase != PhaseRising {
		t.Fatalf("expected rising at turn 10 with completed objective, got %s", phase)
	}

	// At or past the gate it forces resolution regardless of band.
	phase, _ = ComputePhase(26, true)
	if phase != PhaseResolution {
		t.Fatalf("expected resolution at turn 26 with completed objective, got %s", phase)
	}
	phase, _ = ComputePhase(MinResolutionTurn, true)
	if phase != PhaseResolution {
		t.Fatalf("expected resolution at the gate turn, got %s", phase)
	}
}

func TestComputePhaseHardCeiling(t *testing.T) {
	for _, objectiveComplete := range []bool{false, true} {
		phase, _ := ComputePhase(MaxTurns, objectiveComplete)
		if phase != PhaseResolution {
			t.Fatalf("expected resolution at the ceiling (objective=%v), got %s", objectiveComplete, phase)
		}
		phase, _ = ComputePhase(MaxTurns+7, objectiveComplete)
		if phase != PhaseResolution {
			t.Fatalf("expected resolution past the ceiling (objective=%v), got %s", objectiveComplete, phase)
		}
	}
}

func TestComputePhaseIsTotal(t *testing.T) {
	for turn := -5; turn <= MaxTurns+10; turn++ {
		for _, objectiveComplete := range []bool{false, true} {
			phase, pacing := ComputePhase(turn, objectiveComplete)
			if !phase.IsValid() {
				t.Fatalf("invalid phase %q at turn %d", phase, turn)
			}
			if !phase.IsNarrative() {
				t.Fatalf("expected narrative phase at turn %d, got %s", turn, phase)
			}
			if pacing.Urgency == "" || pacing.Tone == "" {
				t.Fatalf("expected pacing directive at turn %d", turn)
			}
		}
	}
}

func TestPhaseOrdinalIsMonotonicAcrossTurns(t *testing.T) {
	previous := PhaseSetup.Ordinal()
	for turn := 1; turn <= MaxTurns; turn++ {
		phase, _ := ComputePhase(turn, false)
		if phase.Ordinal() < previous {
			t.Fatalf("phase ordinal regressed at turn %d", turn)
		}
		previous = phase.Ordinal()
	}
}

func TestPhaseValidity(t *testing.T) {
	if Phase("epilogue").IsValid() {
		t.Fatal("expected unknown phase to be invalid")
	}
	if PhaseCharacterSetup.IsNarrative() {
		t.Fatal("expected character setup to be non-narrative")
	}
	if Phase("epilogue").Ordinal() != -1 {
		t.Fatal("expected unknown phase ordinal -1")
	}
}
