package domain

import (
	"strconv"
	"time"

	"github.com/louisbranch/arc-engine/internal/arc"
	apperrors "github.com/louisbranch/arc-engine/internal/errors"
	"github.com/louisbranch/arc-engine/internal/platform/id"
)

// HistoryLimit bounds the retained exchange history to a sliding window.
const HistoryLimit = 20

// DefaultBudgetTotal is the generation-unit budget granted to new sessions.
const DefaultBudgetTotal = 200

var (
	// ErrSessionComplete indicates the session reached the turn ceiling and
	// accepts no further narrative turns.
	ErrSessionComplete = apperrors.New(apperrors.CodeSessionComplete, "session reached the turn ceiling")
	// ErrCharacterSetupPending indicates narrative play before setup finished.
	ErrCharacterSetupPending = apperrors.New(apperrors.CodeCharacterSetupPending, "character setup is not complete")
	// ErrCharacterSetupComplete indicates setup was already completed.
	ErrCharacterSetupComplete = apperrors.New(apperrors.CodeCharacterSetupComplete, "character setup already complete")
	// ErrInvalidPhaseTransition indicates a phase regression, which is a bug.
	ErrInvalidPhaseTransition = apperrors.New(apperrors.CodeInvalidPhaseTransition, "phase transition is invalid")
	// ErrEmptyScenarioID indicates a missing scenario ID.
	ErrEmptyScenarioID = apperrors.New(apperrors.CodeSessionEmptyScenarioID, "scenario id is required")
)

// Exchange is a single history entry: one speaker's text.
type Exchange struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Session is the canonical record of one ongoing narrative session.
type Session struct {
	ID              string
	ScenarioID      string
	ScenarioTitle   string
	ScenarioTone    string
	ScenarioOpening string
	Phase           arc.Phase
	TurnCount       int
	Objective       *Objective
	Character       *Character
	History         []Exchange
	Budget          Budget
	Cooldowns       map[Role]int
	Choices         []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateSessionInput describes the data needed to create a session.
type CreateSessionInput struct {
	ScenarioID      string
	ScenarioTitle   string
	ScenarioTone    string
	ScenarioOpening string
	Objective       *Objective
	BudgetTotal     int
}

// CreateSession creates a new session with a generated ID and timestamps.
// The session starts in the character setup phase with a zero turn count.
func CreateSession(input CreateSessionInput, now func() time.Time, idGenerator func() (string, error)) (*Session, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if input.ScenarioID == "" {
		return nil, ErrEmptyScenarioID
	}
	total := input.BudgetTotal
	if total <= 0 {
		total = DefaultBudgetTotal
	}

	sessionID, err := idGenerator()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "generate session id", err)
	}

	createdAt := now().UTC()
	return &Session{
		ID:              sessionID,
		ScenarioID:      input.ScenarioID,
		ScenarioTitle:   input.ScenarioTitle,
		ScenarioTone:    input.ScenarioTone,
		ScenarioOpening: input.ScenarioOpening,
		Phase:           arc.PhaseCharacterSetup,
		TurnCount:       0,
		Objective:       input.Objective,
		Budget:          Budget{Total: total},
		Cooldowns:       make(map[Role]int),
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}, nil
}

// CurrentTurnNumber is the 1-based number of the turn currently being played.
// TurnCount only advances once that turn commits.
func (s *Session) CurrentTurnNumber() int {
	return s.TurnCount + 1
}

// Accepting reports whether the session still accepts narrative turns.
func (s *Session) Accepting() bool {
	return s.TurnCount < arc.MaxTurns
}

// AppendHistory records an exchange, sliding the window so only the most
// recent HistoryLimit entries remain.
func (s *Session) AppendHistory(role Role, text string) {
	s.History = append(s.History, Exchange{Role: role, Text: text})
	if excess := len(s.History) - HistoryLimit; excess > 0 {
		s.History = append(s.History[:0], s.History[excess:]...)
	}
}

// SetPhase transitions the session to the given phase. Narrative phases are
// monotonic; regressing is an invariant violation, not a runtime condition.
func (s *Session) SetPhase(next arc.Phase) error {
	if !next.IsValid() {
		return ErrInvalidPhaseTransition.WithMetadata(transitionMetadata(s.Phase, next))
	}
	if next == s.Phase {
		return nil
	}
	if s.Phase != arc.PhaseCharacterSetup && next.Ordinal() < s.Phase.Ordinal() {
		return ErrInvalidPhaseTransition.WithMetadata(transitionMetadata(s.Phase, next))
	}
	if next == arc.PhaseResolution && s.TurnCount < arc.MinResolutionTurn {
		// Resolution is only reachable via the phase policy's band (turn 43+)
		// or the objective gate (turn 25+); anything earlier is a bug.
		return ErrInvalidPhaseTransition.WithMetadata(transitionMetadata(s.Phase, next))
	}
	s.Phase = next
	return nil
}

// AdvanceTurn commits a successful turn: the counter increments by exactly
// one and never past the ceiling.
func (s *Session) AdvanceTurn() error {
	if s.TurnCount >= arc.MaxTurns {
		return ErrSessionComplete
	}
	s.TurnCount++
	return nil
}

// MarkCooldown records the turn on which an optional role last acted.
func (s *Session) MarkCooldown(role Role, turn int) {
	if s.Cooldowns == nil {
		s.Cooldowns = make(map[Role]int)
	}
	s.Cooldowns[role] = turn
}

// LastTriggered returns the turn on which the role last acted, if any.
func (s *Session) LastTriggered(role Role) (int, bool) {
	turn, ok := s.Cooldowns[role]
	return turn, ok
}

// Touch updates the session's modification timestamp.
func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Clone returns a deep copy safe for concurrent reads.
func (s *Session) Clone() *Session {
	clone := *s
	clone.History = append([]Exchange(nil), s.History...)
	clone.Choices = append([]string(nil), s.Choices...)
	clone.Cooldowns = make(map[Role]int, len(s.Cooldowns))
	for role, turn := range s.Cooldowns {
		clone.Cooldowns[role] = turn
	}
	if s.Objective != nil {
		objective := s.Objective.Clone()
		clone.Objective = &objective
	}
	if s.Character != nil {
		character := *s.Character
		character.Traits = append([]string(nil), s.Character.Traits...)
		clone.Character = &character
	}
	return &clone
}

func transitionMetadata(from, to arc.Phase) map[string]string {
	return map[string]string{
		"FromPhase": string(from),
		"ToPhase":   string(to),
	}
}

// Snapshot is the persisted-state shape exposed to the presentation layer.
// Changing this shape requires a version bump of the outbound API.
type Snapshot struct {
	SessionID        string             `json:"session_id"`
	Phase            arc.Phase          `json:"phase"`
	TurnCount        int                `json:"turn_count"`
	Objective        *ObjectiveSnapshot `json:"objective,omitempty"`
	CharacterSummary string             `json:"character_summary,omitempty"`
	BudgetRemaining  int                `json:"budget_remaining"`
}

// Snapshot builds the externally visible view of the session.
func (s *Session) Snapshot() Snapshot {
	snapshot := Snapshot{
		SessionID:       s.ID,
		Phase:           s.Phase,
		TurnCount:       s.TurnCount,
		BudgetRemaining: s.Budget.Remaining(),
	}
	if s.Objective != nil {
		objective := s.Objective.Snapshot()
		snapshot.Objective = &objective
	}
	if s.Character != nil {
		snapshot.CharacterSummary = s.Character.Summary()
	}
	return snapshot
}

// ResolveChoice maps a 1-based selection index into the last offered choice
// set. Free-form input bypasses this entirely.
func (s *Session) ResolveChoice(index int) (string, error) {
	if index < 1 || index > len(s.Choices) {
		return "", apperrors.New(apperrors.CodeChoiceOutOfRange, "choice index out of range").
			WithMetadata(map[string]string{"Choice": strconv.Itoa(index)})
	}
	return s.Choices[index-1], nil
}
