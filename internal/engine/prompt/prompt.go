// Package prompt assembles participant prompts from session state.
//
// Prompts accumulate within a turn: each participant sees the player input,
// the session facts, and the text of every participant that acted earlier in
// the same turn, never the reverse.
package prompt

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/louisbranch/arc-engine/internal/arc"
	"github.com/louisbranch/arc-engine/internal/core/check"
	"github.com/louisbranch/arc-engine/internal/core/dice"
	"github.com/louisbranch/arc-engine/internal/engine/domain"
)

// Input carries everything a participant prompt is built from.
type Input struct {
	ScenarioTitle    string
	ScenarioTone     string
	CharacterSummary string
	Phase            arc.Phase
	Pacing           arc.Pacing
	Objective        *domain.Objective
	History          []domain.Exchange
	PlayerInput      string
	TurnOutputs      []domain.Exchange
	Mechanics        *dice.Result
	Check            *check.Result
	Difficulty       int
}

// Build renders the prompt for one participant role.
func Build(role domain.Role, in Input) string {
	var sb strings.Builder

	if in.ScenarioTitle != "" {
		fmt.Fprintf(&sb, "Scenario: %s\n", in.ScenarioTitle)
	}
	if in.ScenarioTone != "" {
		fmt.Fprintf(&sb, "Tone: %s\n", in.ScenarioTone)
	}
	if in.CharacterSummary != "" {
		fmt.Fprintf(&sb, "Protagonist: %s\n", in.CharacterSummary)
	}
	fmt.Fprintf(&sb, "Story phase: %s (urgency %s, %s)\n", in.Phase, in.Pacing.Urgency, in.Pacing.Tone)

	if in.Objective != nil {
		fmt.Fprintf(&sb, "Objective: %s\n", in.Objective.Title)
		for _, goal := range in.Objective.Goals {
			marker := "open"
			if goal.Completed {
				marker = "done"
			}
			fmt.Fprintf(&sb, "  - [%s] %s\n", marker, goal.Description)
		}
	}

	if len(in.History) > 0 {
		sb.WriteString("\nRecent exchanges:\n")
		for _, exchange := range in.History {
			fmt.Fprintf(&sb, "%s: %s\n", exchange.Role, exchange.Text)
		}
	}

	fmt.Fprintf(&sb, "\nPlayer: %s\n", in.PlayerInput)

	if len(in.TurnOutputs) > 0 {
		sb.WriteString("\nEarlier this turn:\n")
		for _, output := range in.TurnOutputs {
			fmt.Fprintf(&sb, "%s: %s\n", output.Role, output.Text)
		}
	}

	if role == domain.RoleMechanics && in.Mechanics != nil {
		fmt.Fprintf(&sb, "\nDice: %s\n", formatRoll(in.Mechanics))
		if in.Check != nil {
			outcome := "failure"
			if in.Check.Success {
				outcome = "success"
			}
			fmt.Fprintf(&sb, "Check: difficulty %d, %s (margin %+d)\n", in.Difficulty, outcome, in.Check.Margin)
		}
	}

	return sb.String()
}

// MechanicsSeed derives the deterministic dice seed for a turn so identical
// turns reproduce identical mechanics context.
func MechanicsSeed(sessionID string, turnNumber int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%d", sessionID, turnNumber)
	return int64(h.Sum64())
}

func formatRoll(result *dice.Result) string {
	parts := make([]string, 0, len(result.Rolls))
	for _, roll := range result.Rolls {
		values := make([]string, 0, len(roll.Results))
		for _, value := range roll.Results {
			values = append(values, fmt.Sprintf("%d", value))
		}
		parts = append(parts, fmt.Sprintf("%dd%d=[%s]", len(roll.Results), roll.Sides, strings.Join(values, " ")))
	}
	return fmt.Sprintf("%s total %d", strings.Join(parts, " "), result.Total)
}
