// Package domain holds the typed identifiers shared across services. Wrapping
// uuid.UUID in distinct types keeps a session ID from being passed where an
// archive ID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "agridash/pkg/domain-errors"
)

// SessionID identifies one dashboard session. Each session owns exactly one
// generated snapshot; sessions are anonymous render scopes, not users.
type SessionID uuid.UUID

// ArchiveID identifies one archived snapshot row.
type ArchiveID uuid.UUID

// NewSessionID returns a fresh random session ID.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// NewArchiveID returns a fresh random archive ID.
func NewArchiveID() ArchiveID { return ArchiveID(uuid.New()) }

// ParseSessionID constructs a SessionID from external input.
// Returns CodeBadRequest when the value is not a valid UUID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, dErrors.New(dErrors.CodeBadRequest, "invalid session id")
	}
	return SessionID(u), nil
}

// ParseArchiveID constructs an ArchiveID from external input.
// Returns CodeBadRequest when the value is not a valid UUID.
func ParseArchiveID(s string) (ArchiveID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ArchiveID{}, dErrors.New(dErrors.CodeBadRequest, "invalid archive id")
	}
	return ArchiveID(u), nil
}

func (id SessionID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id ArchiveID) String() string { return uuid.UUID(id).String() }

// MarshalText renders the ID in canonical UUID form so JSON payloads carry
// strings, not byte arrays.
func (id SessionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText parses the canonical UUID form.
func (id *SessionID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = SessionID(u)
	return nil
}

// MarshalText renders the ID in canonical UUID form.
func (id ArchiveID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText parses the canonical UUID form.
func (id *ArchiveID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = ArchiveID(u)
	return nil
}
