package stream

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/louisbranch/arc-engine/internal/engine/domain"
	"github.com/louisbranch/arc-engine/internal/engine/executor"
	apperrors "github.com/louisbranch/arc-engine/internal/errors"
)

// Writer delivers one event frame to a client.
type Writer interface {
	WriteEvent(event Event) error
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc func(event Event) error

// WriteEvent implements Writer.
func (f WriterFunc) WriteEvent(event Event) error {
	return f(event)
}

// Emitter translates turn progress into the event sequence clients see.
// It implements the executor's sink, so every event it emits describes
// state the session already holds. Write failures are sticky: after the
// first one the emitter drops further events and reports the failure
// through Err, since a client that stopped reading cannot be recovered
// mid-turn.
type Emitter struct {
	writer Writer
	locale string
	err    error
}

// NewEmitter creates an Emitter that writes events for a client with the
// given locale preference.
func NewEmitter(writer Writer, locale string) *Emitter {
	return &Emitter{writer: writer, locale: locale}
}

// Err returns the first write failure, if any.
func (e *Emitter) Err() error {
	return e.err
}

func (e *Emitter) emit(event Event) {
	if e.err != nil {
		return
	}
	if err := e.writer.WriteEvent(event); err != nil {
		e.err = err
	}
}

// RoutingDecided announces the turn's ordered participants.
func (e *Emitter) RoutingDecided(roles []domain.Role) {
	e.emit(Event{Type: EventRouting, Roles: roles})
}

// ParticipantCompleted emits the start, text, and end frames for one
// committed participant output.
func (e *Emitter) ParticipantCompleted(output executor.Output) {
	e.emit(Event{Type: EventParticipantStart, Role: output.Role})
	e.emit(Event{Type: EventParticipantText, Role: output.Role, Text: output.Text})
	e.emit(Event{Type: EventParticipantEnd, Role: output.Role})
}

// TurnComplete terminates a successful stream with the post-turn snapshot
// and the player's next choices, when the narrator offered any.
func (e *Emitter) TurnComplete(snapshot domain.Snapshot, choices []string) {
	e.emit(Event{Type: EventStateSnapshot, Snapshot: &snapshot})
	e.emit(Event{Type: EventTurnComplete, Choices: choices})
}

// TurnFailed terminates a failed stream. The message is localized for the
// emitter's locale; the code lets clients branch without parsing text.
func (e *Emitter) TurnFailed(err error) {
	e.emit(Event{Type: EventError, Error: &ErrorDetail{
		Code:    string(apperrors.GetCode(err)),
		Message: apperrors.UserMessage(err, e.locale),
	}})
}

// SSEWriter writes event frames to an HTTP response as Server-Sent
// Events, flushing after each frame so clients observe participant
// outputs as they commit.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares the response for event streaming and returns a
// writer for it. The ok result is false when the connection cannot
// stream.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &SSEWriter{w: w, flusher: flusher}, true
}

// WriteEvent implements Writer.
func (s *SSEWriter) WriteEvent(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
