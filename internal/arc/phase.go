// Package arc maps turn progression onto a bounded five-act narrative arc.
//
// ComputePhase is a pure function over the turn counter and objective state;
// it owns every phase-transition rule so the executor and router never
// hard-code pacing decisions.
package arc

// Phase is a coarse narrative-arc stage.
type Phase string

const (
	// PhaseCharacterSetup precedes narrative play while a character is created.
	PhaseCharacterSetup Phase = "character_setup"
	// PhaseSetup establishes the scene and stakes.
	PhaseSetup Phase = "setup"
	// PhaseRising escalates complications.
	PhaseRising Phase = "rising"
	// PhaseMidpoint pivots the story around a reveal or reversal.
	PhaseMidpoint Phase = "midpoint"
	// PhaseClimax drives toward the decisive confrontation.
	PhaseClimax Phase = "climax"
	// PhaseResolution winds the story down to its close.
	PhaseResolution Phase = "resolution"
)

// Turn and pacing limits for a single session.
const (
	// MaxTurns is the hard ceiling on narrative turns per session.
	MaxTurns = 50
	// MinResolutionTurn is the earliest turn at which objective completion
	// may force the resolution phase.
	MinResolutionTurn = 25
)

// Turn bands for the default phase mapping.
const (
	setupEndTurn    = 5
	risingEndTurn   = 20
	midpointEndTurn = 30
	climaxEndTurn   = 42
)

// IsValid reports whether the phase is a known value.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseCharacterSetup, PhaseSetup, PhaseRising, PhaseMidpoint, PhaseClimax, PhaseResolution:
		return true
	default:
		return false
	}
}

// IsNarrative reports whether the phase is part of narrative play.
func (p Phase) IsNarrative() bool {
	return p.IsValid() && p != PhaseCharacterSetup
}

// Ordinal returns the monotonic position of a phase within the arc.
// CharacterSetup is out-of-band and sorts before every narrative phase.
func (p Phase) Ordinal() int {
	switch p {
	case PhaseCharacterSetup:
		return 0
	case PhaseSetup:
		return 1
	case PhaseRising:
		return 2
	case PhaseMidpoint:
		return 3
	case PhaseClimax:
		return 4
	case PhaseResolution:
		return 5
	default:
		return -1
	}
}

// ComputePhase maps a turn count and objective status to the narrative phase
// and its pacing directive.
//
// The default mapping is turn-banded: 1-5 setup, 6-20 rising, 21-30 midpoint,
// 31-42 climax, 43-50 resolution. Two overrides apply, in priority order:
//
//   - turnCount >= MaxTurns forces resolution unconditionally, guaranteeing
//     the session terminates.
//   - objectiveComplete with turnCount >= MinResolutionTurn forces an early
//     resolution; completion before that turn has no phase effect.
//
// ComputePhase is total: any turn count, including zero and values past the
// ceiling, yields a valid phase.
func ComputePhase(turnCount int, objectiveComplete bool) (Phase, Pacing) {
	phase := bandPhase(turnCount)

	if turnCount >= MaxTurns {
		phase = PhaseResolution
	} else if objectiveComplete && turnCount >= MinResolutionTurn {
		phase = PhaseResolution
	}

	return phase, PacingFor(phase)
}

func bandPhase(turnCount int) Phase {
	switch {
	case turnCount <= setupEndTurn:
		return PhaseSetup
	case turnCount <= risingEndTurn:
		return PhaseRising
	case turnCount <= midpointEndTurn:
		return PhaseMidpoint
	case turnCount <= climaxEndTurn:
		return PhaseClimax
	default:
		return PhaseResolution
	}
}
