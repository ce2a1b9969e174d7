// Package domain defines the canonical state for one narrative session.
//
// A Session is the single record of an ongoing story: its narrative phase,
// turn counter, rolling exchange history, active objective, generation
// budget, and per-role cooldowns. All mutation goes through invariant-
// preserving methods; the turn executor is the only caller that mutates a
// session during play, and the session store serializes that access.
//
// # Invariants
//
// After every mutation:
//   - 0 <= TurnCount <= arc.MaxTurns
//   - Phase == resolution implies TurnCount >= arc.MinResolutionTurn or
//     TurnCount == arc.MaxTurns
//   - len(History) <= HistoryLimit, retaining the most recent entries
//   - Budget.Consumed <= Budget.Total
//   - at most one active objective
package domain
