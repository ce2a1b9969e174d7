// Package executor runs the participants of a single narrative turn in
// order, committing each output to the session before yielding it.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"

	"github.com/louisbranch/arc-engine/internal/arc"
	"github.com/louisbranch/arc-engine/internal/core/check"
	"github.com/louisbranch/arc-engine/internal/core/dice"
	"github.com/louisbranch/arc-engine/internal/engine/domain"
	"github.com/louisbranch/arc-engine/internal/engine/generation"
	"github.com/louisbranch/arc-engine/internal/engine/prompt"
	"github.com/louisbranch/arc-engine/internal/engine/router"
	apperrors "github.com/louisbranch/arc-engine/internal/errors"
)

const (
	// DefaultInvokeTimeout bounds a single participant invocation.
	DefaultInvokeTimeout = 30 * time.Second
	// DefaultInvocationCost is the budget units one invocation consumes.
	DefaultInvocationCost = 1
)

var tracer = otel.Tracer("github.com/louisbranch/arc-engine/internal/engine/executor")

// ErrEmptyInput indicates a turn was requested with no player input.
var ErrEmptyInput = apperrors.New(apperrors.CodeTurnEmptyInput, "player input is required")

// Output is one participant's committed contribution to a turn.
type Output struct {
	Role  domain.Role
	Text  string
	Index int
}

// Sink receives turn progress as it commits. Implementations are called
// synchronously from the executing goroutine: a participant's output is
// only delivered after the session already reflects it.
type Sink interface {
	RoutingDecided(roles []domain.Role)
	ParticipantCompleted(output Output)
}

// Config wires an Executor.
type Config struct {
	Router  *router.Router
	Invoker generation.Invoker

	// InvokeTimeout bounds each participant invocation. Defaults to
	// DefaultInvokeTimeout.
	InvokeTimeout time.Duration
	// InvocationCost is the budget units consumed per participant.
	// Defaults to DefaultInvocationCost.
	InvocationCost int
	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Executor drives turns against a session. It mutates the session it is
// given; callers own locking and persistence.
type Executor struct {
	router  *router.Router
	invoker generation.Invoker
	timeout time.Duration
	cost    int
	now     func() time.Time
}

// New creates an Executor from the given configuration.
func New(cfg Config) *Executor {
	e := &Executor{
		router:  cfg.Router,
		invoker: cfg.Invoker,
		timeout: cfg.InvokeTimeout,
		cost:    cfg.InvocationCost,
		now:     cfg.Now,
	}
	if e.router == nil {
		e.router = router.New(router.Config{})
	}
	if e.timeout <= 0 {
		e.timeout = DefaultInvokeTimeout
	}
	if e.cost <= 0 {
		e.cost = DefaultInvocationCost
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// ExecuteTurn runs one full turn for the given player input. Each
// participant's output is committed to the session and then yielded to
// the sink. A failure mid-turn returns an error without rolling back
// the participants that already committed, and without advancing the
// turn counter, so the player can retry the same input.
func (e *Executor) ExecuteTurn(ctx context.Context, session *domain.Session, playerInput string, sink Sink) (domain.Snapshot, error) {
	if session.Phase == arc.PhaseCharacterSetup {
		return domain.Snapshot{}, domain.ErrCharacterSetupPending
	}
	if !session.Accepting() {
		return domain.Snapshot{}, domain.ErrSessionComplete
	}
	if playerInput == "" {
		return domain.Snapshot{}, ErrEmptyInput
	}

	roles := e.router.Route(session, playerInput)
	history := append([]domain.Exchange(nil), session.History...)
	return e.run(ctx, session, playerInput, history, roles, sink, true)
}

// ExecuteOpeningTurn runs the forced narrator-only turn that starts the
// story once character setup completes. It moves the session out of the
// character setup phase.
func (e *Executor) ExecuteOpeningTurn(ctx context.Context, session *domain.Session, sink Sink) (domain.Snapshot, error) {
	if session.Phase != arc.PhaseCharacterSetup {
		return domain.Snapshot{}, domain.ErrCharacterSetupComplete
	}
	if session.Character == nil {
		return domain.Snapshot{}, domain.ErrCharacterSetupPending
	}

	opening := session.ScenarioOpening
	if opening == "" {
		opening = "Open the story and set the scene."
	}
	roles := []domain.Role{domain.RoleNarrator}
	return e.run(ctx, session, opening, session.History, roles, sink, false)
}

// run drives the routed participants in order. The player's input is
// committed together with the first participant's output, so a turn
// that aborts before any participant commits leaves the session
// untouched.
func (e *Executor) run(ctx context.Context, session *domain.Session, playerInput string, history []domain.Exchange, roles []domain.Role, sink Sink, recordInput bool) (snapshot domain.Snapshot, err error) {
	turnNumber := session.CurrentTurnNumber()

	ctx, span := tracer.Start(ctx, "executor.turn")
	span.SetAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("session.phase", string(session.Phase)),
		attribute.Int("turn.number", turnNumber),
		attribute.Int("turn.participants", len(roles)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
		}
		span.End()
	}()

	if sink != nil {
		sink.RoutingDecided(roles)
	}
	outputs := make([]domain.Exchange, 0, len(roles))

	for i, role := range roles {
		if err := ctx.Err(); err != nil {
			return domain.Snapshot{}, err
		}
		if !session.Budget.CanAfford(e.cost) {
			return domain.Snapshot{}, domain.ErrBudgetExhausted.WithMetadata(map[string]string{
				"role": string(role),
			})
		}

		in := prompt.Input{
			ScenarioTitle: session.ScenarioTitle,
			ScenarioTone:  session.ScenarioTone,
			Phase:         session.Phase,
			Pacing:        arc.PacingFor(session.Phase),
			Objective:     session.Objective,
			History:       history,
			PlayerInput:   playerInput,
			TurnOutputs:   outputs,
		}
		if session.Character != nil {
			in.CharacterSummary = session.Character.Summary()
		}
		if role == domain.RoleMechanics {
			result, err := dice.RollDice(dice.Request{
				Dice: []dice.Spec{{Sides: 20, Count: 1}},
				Seed: prompt.MechanicsSeed(session.ID, turnNumber),
			})
			if err != nil {
				return domain.Snapshot{}, err
			}
			difficulty := difficultyFor(session.Phase)
			outcome := check.Against(result.Total, difficulty)
			in.Mechanics = &result
			in.Check = &outcome
			in.Difficulty = difficulty
		}

		text, err := e.invoke(ctx, role, prompt.Build(role, in))
		if err != nil {
			return domain.Snapshot{}, err
		}

		if recordInput && len(outputs) == 0 {
			session.AppendHistory(domain.RolePlayer, playerInput)
		}
		session.AppendHistory(role, text)
		if err := session.Budget.Consume(e.cost); err != nil {
			return domain.Snapshot{}, err
		}
		if role == domain.RoleWildcard {
			session.MarkCooldown(role, turnNumber)
		}
		if role == domain.RoleNarrator {
			session.Choices = ParseChoices(text)
		}
		session.Touch(e.now())

		outputs = append(outputs, domain.Exchange{Role: role, Text: text})
		if sink != nil {
			sink.ParticipantCompleted(Output{Role: role, Text: text, Index: i})
		}
	}

	objectiveComplete := session.Objective.IsComplete()
	if err := session.AdvanceTurn(); err != nil {
		return domain.Snapshot{}, err
	}
	next, _ := arc.ComputePhase(session.TurnCount, objectiveComplete)
	if err := session.SetPhase(next); err != nil {
		return domain.Snapshot{}, err
	}
	session.Touch(e.now())

	return session.Snapshot(), nil
}

// difficultyFor scales the mechanics check with the story arc: stakes
// climb toward the climax and relax once the ending is underway.
func difficultyFor(phase arc.Phase) int {
	switch phase {
	case arc.PhaseRising:
		return 12
	case arc.PhaseMidpoint:
		return 14
	case arc.PhaseClimax:
		return 16
	case arc.PhaseResolution:
		return 10
	default:
		return 8
	}
}

func (e *Executor) invoke(ctx context.Context, role domain.Role, text string) (string, error) {
	ctx, span := tracer.Start(ctx, "executor.invoke")
	span.SetAttributes(attribute.String("participant.role", string(role)))
	defer span.End()

	ictx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := e.invoker.Invoke(ictx, role, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = generation.ErrTimeout
		}
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return "", appErr.WithMetadata(map[string]string{"role": string(role)})
		}
		wrapped := apperrors.Wrap(apperrors.CodeParticipantInvocationFailed, fmt.Sprintf("invoke %s", role), err)
		return "", wrapped.WithMetadata(map[string]string{"role": string(role)})
	}
	return out, nil
}
