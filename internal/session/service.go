// Package session owns the dashboard session lifecycle: create a session,
// generate its snapshot exactly once, look the snapshot up on every later
// interaction. Sessions are anonymous; there is no user identity attached.
package session

import (
	"context"
	"errors"
	"time"

	"agridash/internal/dataset/generator"
	"agridash/internal/dataset/models"
	"agridash/internal/dataset/store"
	id "agridash/pkg/domain"
	dErrors "agridash/pkg/domain-errors"
	"agridash/pkg/platform/sentinel"
)

// DefaultTTL is how long a session's snapshot is retained.
const DefaultTTL = 24 * time.Hour

// Service creates sessions and resolves their snapshots.
type Service struct {
	store store.SnapshotStore
	gen   *generator.Generator
	ttl   time.Duration

	// seed supplies entropy for sessions that did not pin one; swappable
	// in tests.
	seed func() uint64
}

// NewService creates a session service. A zero ttl falls back to DefaultTTL.
func NewService(st store.SnapshotStore, gen *generator.Generator, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store: st,
		gen:   gen,
		ttl:   ttl,
		seed:  generator.RandomSeed,
	}
}

// Create starts a session and generates its snapshot. A non-nil seed pins
// the random draw for reproducible sessions; otherwise each session rolls
// independently.
func (s *Service) Create(ctx context.Context, seed *uint64) (id.SessionID, *models.Snapshot, error) {
	sessionID := id.NewSessionID()

	chosen := s.seed()
	if seed != nil {
		chosen = *seed
	}
	snap := s.gen.Generate(chosen)

	if err := s.store.Save(ctx, sessionID, snap, s.ttl); err != nil {
		return id.SessionID{}, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store snapshot")
	}
	return sessionID, snap, nil
}

// Snapshot resolves a session's generated tables. Expired sessions read the
// same as unknown ones: both are a not-found to the caller.
func (s *Service) Snapshot(ctx context.Context, sessionID id.SessionID) (*models.Snapshot, error) {
	snap, err := s.store.Find(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown or expired session")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load snapshot")
	}
	return snap, nil
}

// End deletes a session's snapshot.
func (s *Service) End(ctx context.Context, sessionID id.SessionID) error {
	err := s.store.Delete(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "unknown or expired session")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete snapshot")
	}
	return nil
}

// Config exposes the static generation configuration for filter parsing.
func (s *Service) Config() models.Config {
	return s.gen.Config()
}
