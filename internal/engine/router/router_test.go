package router

import (
	"math/rand"
	"testing"
	"time"

	"github.com/louisbranch/arc-engine/internal/arc"
	"github.com/louisbranch/arc-engine/internal/engine/domain"
)

func newSession(t *testing.T, phase arc.Phase, turnCount int) *domain.Session {
	t.Helper()
	session, err := domain.CreateSession(domain.CreateSessionInput{ScenarioID: "test"},
		func() time.Time { return time.Unix(0, 0).UTC() },
		func() (string, error) { return "router-test", nil })
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	session.Phase = phase
	session.TurnCount = turnCount
	return session
}

func alwaysDraw() *rand.Rand {
	// Seed chosen so the first Float64 values are comfortably below every
	// configured probability when probability is 1.0 in tests.
	return rand.New(rand.NewSource(1))
}

func TestRouteNarratorMandatory(t *testing.T) {
	r := New(Config{Rng: rand.New(rand.NewSource(1))})
	session := newSession(t, arc.PhaseRising, 10)

	roles := r.Route(session, "look around the room")
	if len(roles) == 0 {
		t.Fatal("expected non-empty routing in a narrative phase")
	}
	found := false
	for _, role := range roles {
		if role == domain.RoleNarrator {
			found = true
		}
	}
	if !found {
		t.Fatal("expected narrator in every narrative routing")
	}
}

func TestRouteMechanicsClassifier(t *testing.T) {
	r := New(Config{Rng: rand.New(rand.NewSource(1)), WildcardProbabilities: map[arc.Phase]float64{}})
	session := newSession(t, arc.PhaseRising, 10)

	tests := []struct {
		name  string
		input string
		want  []domain.Role
	}{
		{"plain narration", "I talk to the innkeeper", []domain.Role{domain.RoleNarrator}},
		{"attack verb", "I attack the guard", []domain.Role{domain.RoleMechanics, domain.RoleNarrator}},
		{"case insensitive", "I CAST a warding spell", []domain.Role{domain.RoleMechanics, domain.RoleNarrator}},
		{"verb inside phrase", "try to sneak past the dogs", []domain.Role{domain.RoleMechanics, domain.RoleNarrator}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := r.Route(session, tt.input)
			if len(roles) != len(tt.want) {
				t.Fatalf("expected %d roles, got %d (%v)", len(tt.want), len(roles), roles)
			}
			for i := range roles {
				if roles[i] != tt.want[i] {
					t.Fatalf("expected roles %v, got %v", tt.want, roles)
				}
			}
		})
	}
}

func TestRouteWildcardPhaseGating(t *testing.T) {
	certain := map[arc.Phase]float64{
		arc.PhaseSetup:      0,
		arc.PhaseRising:     1,
		arc.PhaseMidpoint:   1,
		arc.PhaseClimax:     1,
		arc.PhaseResolution: 0,
	}

	for _, phase := range []arc.Phase{arc.PhaseSetup, arc.PhaseResolution} {
		r := New(Config{Rng: alwaysDraw(), WildcardProbabilities: certain})
		roles := r.Route(newSession(t, phase, 3), "wander")
		for _, role := range roles {
			if role == domain.RoleWildcard {
				t.Fatalf("expected no wildcard in %s phase", phase)
			}
		}
	}

	r := New(Config{Rng: alwaysDraw(), WildcardProbabilities: certain})
	roles := r.Route(newSession(t, arc.PhaseRising, 10), "wander")
	if roles[len(roles)-1] != domain.RoleWildcard {
		t.Fatalf("expected wildcard last with certain probability, got %v", roles)
	}
}

func TestRouteWildcardCooldown(t *testing.T) {
	certain := map[arc.Phase]float64{arc.PhaseRising: 1}
	r := New(Config{Rng: alwaysDraw(), WildcardProbabilities: certain, CooldownTurns: 3})

	session := newSession(t, arc.PhaseRising, 9) // playing turn 10
	session.MarkCooldown(domain.RoleWildcard, 8)

	roles := r.Route(session, "wander")
	for _, role := range roles {
		if role == domain.RoleWildcard {
			t.Fatal("expected wildcard suppressed within cooldown window")
		}
	}

	// Turn 11 is exactly last+cooldown and is allowed again.
	session.TurnCount = 10
	roles = r.Route(session, "wander")
	if roles[len(roles)-1] != domain.RoleWildcard {
		t.Fatalf("expected wildcard after cooldown expiry, got %v", roles)
	}
}

// TestWildcardCooldownRandomized drives 1000 seeded turns and verifies the
// wildcard never acts twice within the cooldown window.
func TestWildcardCooldownRandomized(t *testing.T) {
	const trials = 1000
	const cooldown = 3

	r := New(Config{
		Rng:                   rand.New(rand.NewSource(99)),
		WildcardProbabilities: map[arc.Phase]float64{arc.PhaseRising: 0.5},
		CooldownTurns:         cooldown,
	})

	session := newSession(t, arc.PhaseRising, 0)
	lastActed := -cooldown

	for turn := 1; turn <= trials; turn++ {
		session.TurnCount = turn - 1
		roles := r.Route(session, "wander")

		acted := false
		for _, role := range roles {
			if role == domain.RoleWildcard {
				acted = true
			}
		}
		if acted {
			if turn-lastActed < cooldown {
				t.Fatalf("wildcard acted on turn %d, only %d turns after turn %d", turn, turn-lastActed, lastActed)
			}
			lastActed = turn
			session.MarkCooldown(domain.RoleWildcard, turn)
		}
	}
}

func TestRouteDeterministicGivenSeed(t *testing.T) {
	route := func() [][]domain.Role {
		r := New(Config{Rng: rand.New(rand.NewSource(7))})
		session := newSession(t, arc.PhaseMidpoint, 22)
		var got [][]domain.Role
		for i := 0; i < 20; i++ {
			session.TurnCount = 22 + i
			got = append(got, r.Route(session, "press on"))
		}
		return got
	}

	first := route()
	second := route()
	for i := range first {
		if len(first[i]) != len(second[i]) {
			t.Fatalf("routing diverged at turn %d", i)
		}
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("routing diverged at turn %d position %d", i, j)
			}
		}
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	r := New(Config{Rng: rand.New(rand.NewSource(1))})
	if r.cooldownTurns != DefaultCooldownTurns {
		t.Fatalf("expected default cooldown, got %d", r.cooldownTurns)
	}
	if r.probabilities[arc.PhaseRising] != DefaultWildcardProbabilities[arc.PhaseRising] {
		t.Fatal("expected default probabilities")
	}
}
