package domain

import apperrors "github.com/louisbranch/arc-engine/internal/errors"

var (
	// ErrObjectiveNotActive indicates no active objective exists.
	ErrObjectiveNotActive = apperrors.New(apperrors.CodeObjectiveNotActive, "no active objective")
	// ErrObjectiveGoalNotFound indicates an unknown goal reference.
	ErrObjectiveGoalNotFound = apperrors.New(apperrors.CodeObjectiveGoalNotFound, "objective goal not found")
)

// Goal is one ordered sub-goal of an objective. Completion is a monotonic
// one-way flag; completing an already-completed goal is a no-op.
type Goal struct {
	Description string
	Completed   bool
}

// Objective is the active structured goal that can trigger early resolution.
type Objective struct {
	ID    string
	Title string
	Goals []Goal
}

// IsComplete reports whether every goal has been completed.
// An objective with no goals is never considered complete.
func (o *Objective) IsComplete() bool {
	if o == nil || len(o.Goals) == 0 {
		return false
	}
	for _, goal := range o.Goals {
		if !goal.Completed {
			return false
		}
	}
	return true
}

// CompleteGoal marks the goal at the 0-based index as completed.
func (o *Objective) CompleteGoal(index int) error {
	if o == nil {
		return ErrObjectiveNotActive
	}
	if index < 0 || index >= len(o.Goals) {
		return ErrObjectiveGoalNotFound
	}
	o.Goals[index].Completed = true
	return nil
}

// Clone returns a deep copy of the objective.
func (o *Objective) Clone() Objective {
	clone := *o
	clone.Goals = append([]Goal(nil), o.Goals...)
	return clone
}

// GoalSnapshot is the externally visible view of one goal.
type GoalSnapshot struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// ObjectiveSnapshot is the externally visible view of the objective.
type ObjectiveSnapshot struct {
	Title      string         `json:"title"`
	Objectives []GoalSnapshot `json:"objectives"`
}

// Snapshot builds the externally visible view of the objective.
func (o *Objective) Snapshot() ObjectiveSnapshot {
	snapshot := ObjectiveSnapshot{
		Title:      o.Title,
		Objectives: make([]GoalSnapshot, 0, len(o.Goals)),
	}
	for _, goal := range o.Goals {
		snapshot.Objectives = append(snapshot.Objectives, GoalSnapshot{
			Description: goal.Description,
			Completed:   goal.Completed,
		})
	}
	return snapshot
}
