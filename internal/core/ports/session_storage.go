package ports

import "github.com/civiclens/portal-client/internal/core/domain"

// SessionStorage is the durable persistence boundary for the session blob
// (the browser-localStorage equivalent). Injectable so tests can substitute
// an in-memory store.
type SessionStorage interface {
	// Load returns (nil, nil) when no session is persisted. A non-nil
	// error means the stored blob exists but could not be parsed; callers
	// treat that as "no session", never as fatal.
	Load() (*domain.Session, error)
	Save(s *domain.Session) error
	Clear() error
}
