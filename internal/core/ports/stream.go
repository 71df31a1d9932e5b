package ports

import (
	"context"

	"github.com/civiclens/portal-client/internal/core/domain"
)

// EventStream is an open push channel delivering live report events. The
// channel is closed when the connection drops or Close is called; there is
// no reconnection, so a dropped stream silently stops live updates until
// the view remounts.
type EventStream interface {
	Events() <-chan domain.LiveEvent
	Close() error
}

// StreamDialer opens the push channel authenticated by a bearer token.
type StreamDialer interface {
	Dial(ctx context.Context, token string) (EventStream, error)
}
