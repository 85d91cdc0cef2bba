package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"agridash/internal/dataset/models"
	id "agridash/pkg/domain"
	"agridash/pkg/platform/tx"
)

// ArchiveEntry is one archived snapshot row.
type ArchiveEntry struct {
	ID         id.ArchiveID     `json:"id"`
	SessionID  id.SessionID     `json:"session_id"`
	Seed       uint64           `json:"seed"`
	Snapshot   *models.Snapshot `json:"snapshot"`
	ArchivedAt time.Time        `json:"archived_at"`
}

// ArchiveStore persists snapshots to PostgreSQL so a session's exact random
// draw can be kept beyond its TTL. Append-only; rows are never updated.
//
// Schema:
//
//	CREATE TABLE snapshot_archive (
//	    id          UUID PRIMARY KEY,
//	    session_id  UUID NOT NULL,
//	    seed        NUMERIC(20) NOT NULL,
//	    payload     JSONB NOT NULL,
//	    archived_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX snapshot_archive_session_idx ON snapshot_archive (session_id);
type ArchiveStore struct {
	db *sql.DB
}

// NewArchive creates a PostgreSQL-backed archive store.
func NewArchive(db *sql.DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

// execer abstracts *sql.DB and *sql.Tx so writes can join a transaction
// carried in context.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *ArchiveStore) execer(ctx context.Context) execer {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

// EnsureSchema creates the archive table when it does not exist yet.
func (s *ArchiveStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshot_archive (
			id          UUID PRIMARY KEY,
			session_id  UUID NOT NULL,
			seed        NUMERIC(20) NOT NULL,
			payload     JSONB NOT NULL,
			archived_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create snapshot_archive: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS snapshot_archive_session_idx
		ON snapshot_archive (session_id)`)
	if err != nil {
		return fmt.Errorf("index snapshot_archive: %w", err)
	}
	return nil
}

// Append archives one snapshot for a session and returns the new entry ID.
func (s *ArchiveStore) Append(ctx context.Context, sessionID id.SessionID, snap *models.Snapshot) (id.ArchiveID, error) {
	archiveID := id.NewArchiveID()

	payload, err := json.Marshal(snap)
	if err != nil {
		return id.ArchiveID{}, fmt.Errorf("marshal snapshot payload: %w", err)
	}

	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO snapshot_archive (id, session_id, seed, payload, archived_at)
		VALUES ($1, $2, $3, $4, $5)`,
		archiveID.String(),
		sessionID.String(),
		fmt.Sprintf("%d", snap.Seed),
		payload,
		time.Now().UTC(),
	)
	if err != nil {
		return id.ArchiveID{}, fmt.Errorf("insert snapshot_archive: %w", err)
	}
	return archiveID, nil
}

// FindBySession returns all archive entries for a session, oldest first.
func (s *ArchiveStore) FindBySession(ctx context.Context, sessionID id.SessionID) ([]ArchiveEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seed, payload, archived_at
		FROM snapshot_archive
		WHERE session_id = $1
		ORDER BY archived_at ASC`,
		sessionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshot_archive: %w", err)
	}
	defer rows.Close()

	var entries []ArchiveEntry
	for rows.Next() {
		var (
			entry      ArchiveEntry
			rawID      string
			rawSession string
			rawSeed    string
			payload    []byte
		)
		if err := rows.Scan(&rawID, &rawSession, &rawSeed, &payload, &entry.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot_archive: %w", err)
		}

		archiveID, err := id.ParseArchiveID(rawID)
		if err != nil {
			return nil, fmt.Errorf("corrupt archive id %q", rawID)
		}
		entry.ID = archiveID

		sid, err := id.ParseSessionID(rawSession)
		if err != nil {
			return nil, fmt.Errorf("corrupt session id %q in archive", rawSession)
		}
		entry.SessionID = sid

		if _, err := fmt.Sscanf(rawSeed, "%d", &entry.Seed); err != nil {
			return nil, fmt.Errorf("corrupt seed %q in archive", rawSeed)
		}

		var snap models.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("unmarshal archive payload: %w", err)
		}
		entry.Snapshot = &snap

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
