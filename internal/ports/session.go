package ports

import "smart-attendance/internal/domain"

// SessionStore persists at most one session record. Load returns
// domain.ErrNotFound when no record exists; expiry is the caller's concern.
type SessionStore interface {
	Load() (domain.StoredSession, error)
	Save(session domain.StoredSession) error
	Clear() error
}
