package server

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/louisbranch/arc-engine/internal/arc"
	"github.com/louisbranch/arc-engine/internal/engine/domain"
	"github.com/louisbranch/arc-engine/internal/engine/executor"
	"github.com/louisbranch/arc-engine/internal/engine/generation"
	"github.com/louisbranch/arc-engine/internal/engine/router"
	"github.com/louisbranch/arc-engine/internal/engine/session"
	"github.com/louisbranch/arc-engine/internal/random"
	"github.com/louisbranch/arc-engine/internal/scenario"
)

// service orchestrates sessions: it owns the live store and the turn
// executor, and leaves transport concerns to the handlers.
type service struct {
	sessions *session.Store
	executor *executor.Executor

	budgetTotal int
	now         func() time.Time
	idGenerator func() (string, error)
}

type serviceConfig struct {
	Invoker       generation.Invoker
	BudgetTotal   int
	InvokeTimeout time.Duration
	IdleAfter     time.Duration
	SweepInterval time.Duration
	OnEvict       func(session *domain.Session)
	Rng           *rand.Rand
	WildcardOdds  map[arc.Phase]float64
	Now           func() time.Time
	IDGenerator   func() (string, error)
}

func newService(cfg serviceConfig) *service {
	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(random.NewSeed()))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		sessions: session.NewStore(session.Config{
			Now:           now,
			IdleAfter:     cfg.IdleAfter,
			SweepInterval: cfg.SweepInterval,
			OnEvict:       cfg.OnEvict,
		}),
		executor: executor.New(executor.Config{
			Router:        router.New(router.Config{Rng: rng, WildcardProbabilities: cfg.WildcardOdds}),
			Invoker:       cfg.Invoker,
			InvokeTimeout: cfg.InvokeTimeout,
			Now:           now,
		}),
		budgetTotal: cfg.BudgetTotal,
		now:         now,
		idGenerator: cfg.IDGenerator,
	}
}

// startResult is what session creation and character completion hand
// back to the transport layer.
type startResult struct {
	Session   *domain.Session
	Narration string
}

func (s *service) createSession(ctx context.Context, scenarioID string, budgetTotal int, character *domain.CharacterInput, sink executor.Sink) (startResult, error) {
	def, err := scenario.Get(strings.TrimSpace(scenarioID))
	if err != nil {
		return startResult{}, err
	}

	if budgetTotal <= 0 {
		budgetTotal = s.budgetTotal
	}
	sess, err := domain.CreateSession(domain.CreateSessionInput{
		ScenarioID:      def.ID,
		ScenarioTitle:   def.Title,
		ScenarioTone:    def.Tone,
		ScenarioOpening: def.Opening,
		Objective:       def.NewObjective(),
		BudgetTotal:     budgetTotal,
	}, s.now, s.idGenerator)
	if err != nil {
		return startResult{}, err
	}
	if err := s.sessions.Create(sess); err != nil {
		return startResult{}, err
	}

	if character == nil {
		return startResult{Session: sess.Clone()}, nil
	}
	return s.completeCharacter(ctx, sess.ID, *character, sink)
}

// completeCharacter records the protagonist and plays the forced opening
// turn. When the opening turn fails the character sticks, so a retry
// replays only the narration.
func (s *service) completeCharacter(ctx context.Context, id string, input domain.CharacterInput, sink executor.Sink) (startResult, error) {
	sess, release, err := s.sessions.BeginTurn(id)
	if err != nil {
		return startResult{}, err
	}
	defer release()

	if sess.Character == nil {
		if err := sess.CompleteCharacterSetup(input); err != nil {
			return startResult{}, err
		}
	} else if sess.Phase != arc.PhaseCharacterSetup {
		return startResult{}, domain.ErrCharacterSetupComplete
	}

	if _, err := s.executor.ExecuteOpeningTurn(ctx, sess, sink); err != nil {
		return startResult{}, err
	}

	narration := ""
	if len(sess.History) > 0 {
		narration = sess.History[len(sess.History)-1].Text
	}
	return startResult{Session: sess.Clone(), Narration: narration}, nil
}

func (s *service) getSession(id string) (*domain.Session, error) {
	return s.sessions.Get(id)
}

// runTurn claims the session, resolves a numbered choice into its text
// when one was picked, and executes the turn against the given sink.
func (s *service) runTurn(ctx context.Context, id string, input string, choice int, sink executor.Sink) (domain.Snapshot, []string, error) {
	sess, release, err := s.sessions.BeginTurn(id)
	if err != nil {
		return domain.Snapshot{}, nil, err
	}
	defer release()

	if choice > 0 {
		resolved, err := sess.ResolveChoice(choice)
		if err != nil {
			return domain.Snapshot{}, nil, err
		}
		input = resolved
	}

	snapshot, err := s.executor.ExecuteTurn(ctx, sess, strings.TrimSpace(input), sink)
	if err != nil {
		return domain.Snapshot{}, nil, err
	}
	return snapshot, append([]string(nil), sess.Choices...), nil
}

func (s *service) completeObjectiveGoal(id string, goalIndex int) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := s.sessions.Update(id, func(sess *domain.Session) error {
		if err := sess.Objective.CompleteGoal(goalIndex); err != nil {
			return err
		}
		sess.Touch(s.now())
		snapshot = sess.Snapshot()
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return snapshot, nil
}

func (s *service) endSession(id string) (*domain.Session, error) {
	return s.sessions.Remove(id)
}
