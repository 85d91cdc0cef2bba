package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: snapshot or archive entry does not exist in the store
// - ErrExpired: session snapshot passed its TTL
// - ErrConflict: a snapshot already exists for the session
// - ErrUnavailable: backing store not configured or not reachable
//
// For validation errors (bad filters, malformed input), use
// pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("expired")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
