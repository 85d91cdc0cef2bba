package store

import (
	"context"
	"testing"
	"time"

	"agridash/internal/dataset/generator"
	"agridash/internal/dataset/models"
	id "agridash/pkg/domain"
	"agridash/pkg/platform/sentinel"

	"github.com/stretchr/testify/suite"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemorySnapshotStore
	snap  *models.Snapshot
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.snap = generator.New(models.DefaultConfig()).Generate(11)
}

func (s *MemoryStoreSuite) TestSaveAndFind() {
	sessionID := id.NewSessionID()

	err := s.store.Save(context.Background(), sessionID, s.snap, time.Hour)
	s.Require().NoError(err)

	found, err := s.store.Find(context.Background(), sessionID)
	s.Require().NoError(err)
	s.Equal(s.snap, found)
}

func (s *MemoryStoreSuite) TestFindUnknownSession() {
	_, err := s.store.Find(context.Background(), id.NewSessionID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestFindExpiredSnapshot() {
	sessionID := id.NewSessionID()
	err := s.store.Save(context.Background(), sessionID, s.snap, time.Hour)
	s.Require().NoError(err)

	s.store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = s.store.Find(context.Background(), sessionID)
	s.Require().ErrorIs(err, sentinel.ErrExpired)

	// Expired entries are dropped, so a second lookup is a plain miss.
	s.store.now = time.Now
	_, err = s.store.Find(context.Background(), sessionID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestDelete() {
	sessionID := id.NewSessionID()
	err := s.store.Save(context.Background(), sessionID, s.snap, time.Hour)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(context.Background(), sessionID))
	s.Require().ErrorIs(s.store.Delete(context.Background(), sessionID), sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestSessionsAreIndependent() {
	first, second := id.NewSessionID(), id.NewSessionID()
	other := generator.New(models.DefaultConfig()).Generate(12)

	s.Require().NoError(s.store.Save(context.Background(), first, s.snap, time.Hour))
	s.Require().NoError(s.store.Save(context.Background(), second, other, time.Hour))

	foundFirst, err := s.store.Find(context.Background(), first)
	s.Require().NoError(err)
	foundSecond, err := s.store.Find(context.Background(), second)
	s.Require().NoError(err)

	s.NotEqual(foundFirst.IVS, foundSecond.IVS)
}
