// Package server hosts the narrative engine HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/arc-engine/internal/arc"
	"github.com/louisbranch/arc-engine/internal/engine/domain"
	"github.com/louisbranch/arc-engine/internal/engine/generation"
	"github.com/louisbranch/arc-engine/internal/scenario"
	"github.com/louisbranch/arc-engine/internal/services/engine/storage"
	storagesqlite "github.com/louisbranch/arc-engine/internal/services/engine/storage/sqlite"
)

// Config holds engine server configuration.
type Config struct {
	Port int
	Addr string

	// Invoker produces participant text. Required.
	Invoker generation.Invoker
	// Archive receives sessions that leave the live store. When nil,
	// ArchivePath is consulted; when that is also empty, archival is
	// disabled.
	Archive     storage.Archive
	ArchivePath string

	BudgetTotal   int
	InvokeTimeout time.Duration
	IdleAfter     time.Duration
	SweepInterval time.Duration

	// Rng drives wildcard draws. Defaults to a crypto-seeded source.
	Rng *rand.Rand
	// WildcardOdds overrides the per-phase wildcard probabilities.
	WildcardOdds map[arc.Phase]float64
	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
	// IDGenerator is injectable for tests.
	IDGenerator func() (string, error)
}

// Server hosts the narrative engine API.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	svc        *service
	archive    storage.Archive
	ownArchive bool
}

// New creates a configured engine server listening per the config.
func New(cfg Config) (*Server, error) {
	if cfg.Invoker == nil {
		return nil, fmt.Errorf("generation invoker is required")
	}
	if err := scenario.ValidateEmbeddedCatalog(); err != nil {
		return nil, err
	}

	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Port)
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	archive := cfg.Archive
	ownArchive := false
	if archive == nil && strings.TrimSpace(cfg.ArchivePath) != "" {
		archive, err = openArchive(cfg.ArchivePath)
		if err != nil {
			_ = listener.Close()
			return nil, err
		}
		ownArchive = true
	}

	srv := &Server{
		listener:   listener,
		archive:    archive,
		ownArchive: ownArchive,
	}
	srv.svc = newService(serviceConfig{
		Invoker:       cfg.Invoker,
		BudgetTotal:   cfg.BudgetTotal,
		InvokeTimeout: cfg.InvokeTimeout,
		IdleAfter:     cfg.IdleAfter,
		SweepInterval: cfg.SweepInterval,
		OnEvict:       srv.archiveSession,
		Rng:           cfg.Rng,
		WildcardOdds:  cfg.WildcardOdds,
		Now:           cfg.Now,
		IDGenerator:   cfg.IDGenerator,
	})
	srv.httpServer = &http.Server{Handler: srv.routes()}
	return srv, nil
}

// Addr returns the listener address for the engine server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves an engine server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	srv, err := New(cfg)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve starts the engine server and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeArchive()

	log.Printf("engine server listening at %v", s.listener.Addr())

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := s.httpServer.Serve(s.listener)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	})
	group.Go(func() error {
		s.svc.sessions.RunSweeper(groupCtx)
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// archiveSession persists a session leaving the live store. Archival is
// best effort: a failed write is logged, not retried, so eviction never
// blocks on storage.
func (s *Server) archiveSession(sess *domain.Session) {
	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record := storage.FromSession(sess, time.Now().UTC())
	if err := s.archive.ArchiveSession(ctx, record); err != nil {
		log.Printf("archive session %s: %v", sess.ID, err)
	}
}

func (s *Server) closeArchive() {
	if !s.ownArchive || s.archive == nil {
		return
	}
	if err := s.archive.Close(); err != nil {
		log.Printf("close archive: %v", err)
	}
}

func openArchive(path string) (storage.Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := storagesqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite archive: %w", err)
	}
	return store, nil
}
