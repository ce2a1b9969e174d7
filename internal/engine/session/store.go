// Package session keeps live sessions in memory and serializes turn
// execution per session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/louisbranch/arc-engine/internal/engine/domain"
	apperrors "github.com/louisbranch/arc-engine/internal/errors"
)

// DefaultIdleAfter is how long a session may sit untouched before the
// sweeper evicts it.
const DefaultIdleAfter = 2 * time.Hour

// DefaultSweepInterval is how often the sweeper scans for idle sessions.
const DefaultSweepInterval = 5 * time.Minute

var (
	// ErrNotFound indicates the session ID is unknown.
	ErrNotFound = apperrors.New(apperrors.CodeSessionNotFound, "session not found")
	// ErrTurnInFlight indicates a turn is already executing for the session.
	ErrTurnInFlight = apperrors.New(apperrors.CodeTurnInFlight, "a turn is already in flight for this session")
	// ErrDuplicateID indicates a session with the same ID already exists.
	ErrDuplicateID = apperrors.New(apperrors.CodeUnknown, "session id already exists")
)

type entry struct {
	mu       sync.Mutex
	session  *domain.Session
	lastUsed time.Time
}

// Config wires a Store.
type Config struct {
	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
	// IdleAfter is the idle eviction threshold. Defaults to
	// DefaultIdleAfter.
	IdleAfter time.Duration
	// SweepInterval is the sweeper period. Defaults to
	// DefaultSweepInterval.
	SweepInterval time.Duration
	// OnEvict, when set, receives each evicted session. Eviction also
	// covers explicit removal, so archival hooks see every session that
	// leaves the store.
	OnEvict func(session *domain.Session)
}

// Store holds live sessions. Each session carries its own lock so turns
// for different sessions run concurrently while turns for one session
// are rejected rather than queued.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	now           func() time.Time
	idleAfter     time.Duration
	sweepInterval time.Duration
	onEvict       func(session *domain.Session)
}

// NewStore creates a Store from the given configuration.
func NewStore(cfg Config) *Store {
	s := &Store{
		entries:       make(map[string]*entry),
		now:           cfg.Now,
		idleAfter:     cfg.IdleAfter,
		sweepInterval: cfg.SweepInterval,
		onEvict:       cfg.OnEvict,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.idleAfter <= 0 {
		s.idleAfter = DefaultIdleAfter
	}
	if s.sweepInterval <= 0 {
		s.sweepInterval = DefaultSweepInterval
	}
	return s
}

// Create registers a new session.
func (s *Store) Create(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[session.ID]; exists {
		return ErrDuplicateID.WithMetadata(map[string]string{"session_id": session.ID})
	}
	s.entries[session.ID] = &entry{session: session, lastUsed: s.now()}
	return nil
}

// Get returns a copy of the session. Mutating the copy does not affect
// the stored session.
func (s *Store) Get(id string) (*domain.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

// BeginTurn claims the session for turn execution. It returns the live
// session and a release function the caller must invoke once the turn
// settles. A session already claimed yields ErrTurnInFlight immediately
// instead of queueing.
func (s *Store) BeginTurn(id string) (*domain.Session, func(), error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}

	if !e.mu.TryLock() {
		return nil, nil, ErrTurnInFlight.WithMetadata(map[string]string{"session_id": id})
	}
	e.lastUsed = s.now()
	return e.session, e.mu.Unlock, nil
}

// Update applies fn to the session under its lock, waiting for any
// in-flight turn to settle first. Used for out-of-band mutations such
// as objective progress.
func (s *Store) Update(id string, fn func(session *domain.Session) error) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = s.now()
	return fn(e.session)
}

// Remove evicts the session and returns it, waiting for any in-flight
// turn to settle first.
func (s *Store) Remove(id string) (*domain.Session, error) {
	s.mu.Lock()
	e, exists := s.entries[id]
	if !exists {
		s.mu.Unlock()
		return nil, ErrNotFound.WithMetadata(map[string]string{"session_id": id})
	}
	delete(s.entries, id)
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if s.onEvict != nil {
		s.onEvict(e.session)
	}
	return e.session, nil
}

// Len reports how many sessions the store holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep evicts sessions idle past the threshold and returns how many it
// removed. Sessions with a turn in flight are skipped.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.idleAfter)

	s.mu.Lock()
	var evicted []*entry
	for id, e := range s.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.After(cutoff) {
			e.mu.Unlock()
			continue
		}
		delete(s.entries, id)
		evicted = append(evicted, e)
	}
	s.mu.Unlock()

	for _, e := range evicted {
		if s.onEvict != nil {
			s.onEvict(e.session)
		}
		e.mu.Unlock()
	}
	return len(evicted)
}

// RunSweeper periodically sweeps idle sessions until the context ends.
func (s *Store) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, exists := s.entries[id]
	s.mu.RUnlock()
	if !exists {
		return nil, ErrNotFound.WithMetadata(map[string]string{"session_id": id})
	}
	return e, nil
}
