// Package store holds the per-session snapshot stores. A snapshot is written
// once at session creation and read on every render; it is never mutated, so
// implementations only need set/get/delete with a TTL.
package store

import (
	"context"
	"time"

	"agridash/internal/dataset/models"
	id "agridash/pkg/domain"
)

// SnapshotStore binds a session to its generated tables.
//
// Find returns sentinel.ErrNotFound (possibly wrapped) when the session is
// unknown or its snapshot has expired; services translate that into a domain
// not-found error.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID id.SessionID, snap *models.Snapshot, ttl time.Duration) error
	Find(ctx context.Context, sessionID id.SessionID) (*models.Snapshot, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
}
