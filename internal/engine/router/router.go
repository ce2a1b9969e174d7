// Package router decides which participants act on a turn, and in what order.
package router

import (
	"math/rand"
	"strings"

	"github.com/louisbranch/arc-engine/internal/arc"
	"github.com/louisbranch/arc-engine/internal/engine/domain"
)

// DefaultCooldownTurns is the minimum turn spacing for the wildcard role.
const DefaultCooldownTurns = 3

// DefaultWildcardProbabilities is the per-phase chance of wildcard injection.
// The values are tuning parameters, not correctness constraints; services
// override them from configuration.
var DefaultWildcardProbabilities = map[arc.Phase]float64{
	arc.PhaseSetup:      0,
	arc.PhaseRising:     0.25,
	arc.PhaseMidpoint:   0.35,
	arc.PhaseClimax:     0.3,
	arc.PhaseResolution: 0,
}

// actionVerbs is the fixed action-verb set that flags a turn for mechanics
// resolution. Matching is a bounded, deterministic classifier, never a
// generation call.
var actionVerbs = []string{
	"attack",
	"strike",
	"shoot",
	"throw",
	"grapple",
	"dodge",
	"parry",
	"cast",
	"sneak",
	"climb",
	"leap",
	"force",
	"smash",
	"disarm",
}

// Config carries the router's injectable tuning knobs.
type Config struct {
	// Rng drives the wildcard draw. Required; tests inject a seeded source.
	Rng *rand.Rand
	// WildcardProbabilities overrides DefaultWildcardProbabilities when set.
	WildcardProbabilities map[arc.Phase]float64
	// CooldownTurns overrides DefaultCooldownTurns when positive.
	CooldownTurns int
}

// Router decides the ordered participant list for each turn.
type Router struct {
	rng           *rand.Rand
	probabilities map[arc.Phase]float64
	cooldownTurns int
}

// New creates a Router from the provided configuration.
func New(cfg Config) *Router {
	probabilities := cfg.WildcardProbabilities
	if probabilities == nil {
		probabilities = DefaultWildcardProbabilities
	}
	cooldownTurns := cfg.CooldownTurns
	if cooldownTurns <= 0 {
		cooldownTurns = DefaultCooldownTurns
	}
	return &Router{
		rng:           cfg.Rng,
		probabilities: probabilities,
		cooldownTurns: cooldownTurns,
	}
}

// Route returns the ordered participants for the turn described by the
// session state and player input. The result is never empty in narrative
// phases: the narrator is mandatory. Mechanics precedes narration when the
// input matches the action-verb set; the wildcard, when drawn and off
// cooldown, acts last.
func (r *Router) Route(session *domain.Session, playerInput string) []domain.Role {
	roles := make([]domain.Role, 0, 3)

	if matchesAction(playerInput) {
		roles = append(roles, domain.RoleMechanics)
	}
	roles = append(roles, domain.RoleNarrator)

	if r.drawWildcard(session) {
		roles = append(roles, domain.RoleWildcard)
	}

	return roles
}

// drawWildcard performs the single random draw for wildcard injection,
// gated by phase probability and the cooldown table.
func (r *Router) drawWildcard(session *domain.Session) bool {
	probability := r.probabilities[session.Phase]
	if probability <= 0 {
		return false
	}

	currentTurn := session.CurrentTurnNumber()
	if last, ok := session.LastTriggered(domain.RoleWildcard); ok {
		if currentTurn < last+r.cooldownTurns {
			return false
		}
	}

	if r.rng == nil {
		return false
	}
	return r.rng.Float64() < probability
}

// matchesAction reports whether the input contains an action verb.
func matchesAction(playerInput string) bool {
	input := strings.ToLower(playerInput)
	for _, verb := range actionVerbs {
		if strings.Contains(input, verb) {
			return true
		}
	}
	return false
}
