// Package stream carries turn progress to clients as a typed event
// sequence, with an SSE writer for HTTP delivery.
package stream

import "github.com/louisbranch/arc-engine/internal/engine/domain"

// EventType discriminates the events emitted over a turn stream.
type EventType string

const (
	// EventRouting announces the ordered participants for the turn.
	EventRouting EventType = "routing"
	// EventParticipantStart opens one participant's contribution.
	EventParticipantStart EventType = "participant_start"
	// EventParticipantText carries a participant's committed text.
	EventParticipantText EventType = "participant_text"
	// EventParticipantEnd closes one participant's contribution.
	EventParticipantEnd EventType = "participant_end"
	// EventStateSnapshot carries the post-turn session snapshot.
	EventStateSnapshot EventType = "state_snapshot"
	// EventTurnComplete terminates a successful stream.
	EventTurnComplete EventType = "turn_complete"
	// EventError terminates a failed stream.
	EventError EventType = "error"
)

// Event is one frame of a turn stream. Only the fields relevant to the
// event type are populated.
type Event struct {
	Type     EventType        `json:"type"`
	Roles    []domain.Role    `json:"roles,omitempty"`
	Role     domain.Role      `json:"role,omitempty"`
	Text     string           `json:"text,omitempty"`
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	Choices  []string         `json:"choices,omitempty"`
	Error    *ErrorDetail     `json:"error,omitempty"`
}

// ErrorDetail carries the terminal failure details of a turn stream.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
