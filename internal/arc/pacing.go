package arc

// Urgency grades how hard the narration should push the story forward.
type Urgency string

const (
	// UrgencyLow invites exploration and scene-setting.
	UrgencyLow Urgency = "low"
	// UrgencyBuilding layers complications without forcing confrontation.
	UrgencyBuilding Urgency = "building"
	// UrgencyHigh raises stakes and narrows player options.
	UrgencyHigh Urgency = "high"
	// UrgencyPeak demands decisive, consequential beats.
	UrgencyPeak Urgency = "peak"
	// UrgencyClosing resolves threads and lands the ending.
	UrgencyClosing Urgency = "closing"
)

// Pacing is an advisory directive threaded into participant prompts.
// It biases generated content only and never affects control flow.
type Pacing struct {
	Urgency Urgency
	Tone    string
}

// PacingFor returns the pacing directive for a phase.
func PacingFor(phase Phase) Pacing {
	switch phase {
	case PhaseSetup:
		return Pacing{Urgency: UrgencyLow, Tone: "curious and inviting"}
	case PhaseRising:
		return Pacing{Urgency: UrgencyBuilding, Tone: "tense and foreboding"}
	case PhaseMidpoint:
		return Pacing{Urgency: UrgencyHigh, Tone: "urgent and revelatory"}
	case PhaseClimax:
		return Pacing{Urgency: UrgencyPeak, Tone: "desperate and decisive"}
	case PhaseResolution:
		return Pacing{Urgency: UrgencyClosing, Tone: "reflective and conclusive"}
	default:
		return Pacing{Urgency: UrgencyLow, Tone: "neutral"}
	}
}
