// Package sqlite provides a SQLite-backed session archive.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/arc-engine/internal/engine/domain"
	apperrors "github.com/louisbranch/arc-engine/internal/errors"
	sqlitemigrate "github.com/louisbranch/arc-engine/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/arc-engine/internal/services/engine/storage"
	"github.com/louisbranch/arc-engine/internal/services/engine/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists archived sessions in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite archive store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ArchiveSession stores the record, replacing any previous archive of
// the same session.
func (s *Store) ArchiveSession(ctx context.Context, record storage.ArchivedSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("session id is required")
	}

	history, err := json.Marshal(record.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	archivedAt := record.ArchivedAt
	if archivedAt.IsZero() {
		archivedAt = time.Now().UTC()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO archived_sessions (
		   id,
		   scenario_id,
		   phase,
		   turn_count,
		   objective_title,
		   objective_done,
		   character_summary,
		   budget_consumed,
		   budget_total,
		   history_json,
		   created_at,
		   updated_at,
		   archived_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   phase = excluded.phase,
		   turn_count = excluded.turn_count,
		   objective_title = excluded.objective_title,
		   objective_done = excluded.objective_done,
		   character_summary = excluded.character_summary,
		   budget_consumed = excluded.budget_consumed,
		   budget_total = excluded.budget_total,
		   history_json = excluded.history_json,
		   updated_at = excluded.updated_at,
		   archived_at = excluded.archived_at`,
		record.ID,
		record.ScenarioID,
		record.Phase,
		record.TurnCount,
		record.ObjectiveTitle,
		boolToInt(record.ObjectiveDone),
		record.CharacterSummary,
		record.BudgetConsumed,
		record.BudgetTotal,
		string(history),
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
		toMillis(archivedAt),
	)
	if err != nil {
		return fmt.Errorf("insert archived session: %w", err)
	}
	return nil
}

// GetArchivedSession retrieves one record by session ID.
func (s *Store) GetArchivedSession(ctx context.Context, id string) (storage.ArchivedSession, error) {
	if err := ctx.Err(); err != nil {
		return storage.ArchivedSession{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ArchivedSession{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, scenario_id, phase, turn_count, objective_title,
		        objective_done, character_summary, budget_consumed,
		        budget_total, history_json, created_at, updated_at,
		        archived_at
		   FROM archived_sessions WHERE id = ?`,
		id,
	)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return storage.ArchivedSession{}, apperrors.New(apperrors.CodeNotFound, "archived session not found").
			WithMetadata(map[string]string{"session_id": id})
	}
	if err != nil {
		return storage.ArchivedSession{}, fmt.Errorf("query archived session: %w", err)
	}
	return record, nil
}

// ListArchivedSessions returns the most recently archived records,
// newest first.
func (s *Store) ListArchivedSessions(ctx context.Context, limit int) ([]storage.ArchivedSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, scenario_id, phase, turn_count, objective_title,
		        objective_done, character_summary, budget_consumed,
		        budget_total, history_json, created_at, updated_at,
		        archived_at
		   FROM archived_sessions
		  ORDER BY archived_at DESC, id
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query archived sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []storage.ArchivedSession
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan archived session: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived sessions: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (storage.ArchivedSession, error) {
	var record storage.ArchivedSession
	var objectiveDone int
	var historyJSON string
	var createdAt, updatedAt, archivedAt int64

	err := row.Scan(
		&record.ID,
		&record.ScenarioID,
		&record.Phase,
		&record.TurnCount,
		&record.ObjectiveTitle,
		&objectiveDone,
		&record.CharacterSummary,
		&record.BudgetConsumed,
		&record.BudgetTotal,
		&historyJSON,
		&createdAt,
		&updatedAt,
		&archivedAt,
	)
	if err != nil {
		return storage.ArchivedSession{}, err
	}

	record.ObjectiveDone = objectiveDone != 0
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	record.ArchivedAt = fromMillis(archivedAt)
	if historyJSON != "" {
		var history []domain.Exchange
		if err := json.Unmarshal([]byte(historyJSON), &history); err != nil {
			return storage.ArchivedSession{}, fmt.Errorf("decode history: %w", err)
		}
		record.History = history
	}
	return record, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
