// Package storage defines the archive contract for sessions that leave
// the live store.
package storage

import (
	"context"
	"time"

	"github.com/louisbranch/arc-engine/internal/engine/domain"
)

// ArchivedSession is the durable record of a session after it leaves
// memory. History keeps only the retained window, same as the live
// session.
type ArchivedSession struct {
	ID               string
	ScenarioID       string
	Phase            string
	TurnCount        int
	ObjectiveTitle   string
	ObjectiveDone    bool
	CharacterSummary string
	BudgetConsumed   int
	BudgetTotal      int
	History          []domain.Exchange
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ArchivedAt       time.Time
}

// Archive persists sessions evicted or removed from the live store.
type Archive interface {
	// ArchiveSession stores the record, replacing any previous archive
	// of the same session.
	ArchiveSession(ctx context.Context, record ArchivedSession) error
	// GetArchivedSession retrieves one record by session ID.
	GetArchivedSession(ctx context.Context, id string) (ArchivedSession, error)
	// ListArchivedSessions returns the most recently archived records,
	// newest first.
	ListArchivedSessions(ctx context.Context, limit int) ([]ArchivedSession, error)
	// Close releases the underlying handle.
	Close() error
}

// FromSession builds an archive record from a live session.
func FromSession(session *domain.Session, archivedAt time.Time) ArchivedSession {
	record := ArchivedSession{
		ID:             session.ID,
		ScenarioID:     session.ScenarioID,
		Phase:          string(session.Phase),
		TurnCount:      session.TurnCount,
		BudgetConsumed: session.Budget.Consumed,
		BudgetTotal:    session.Budget.Total,
		History:        append([]domain.Exchange(nil), session.History...),
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
		ArchivedAt:     archivedAt,
	}
	if session.Objective != nil {
		record.ObjectiveTitle = session.Objective.Title
		record.ObjectiveDone = session.Objective.IsComplete()
	}
	if session.Character != nil {
		record.CharacterSummary = session.Character.Summary()
	}
	return record
}
