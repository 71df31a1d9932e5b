package ports

import (
	"context"
	"errors"

	"github.com/civiclens/portal-client/internal/core/domain"
)

// ErrLocationUnavailable means no geolocation fix could be obtained (the
// stand-in for a denied browser permission prompt).
var ErrLocationUnavailable = errors.New("location unavailable")

// Locator resolves the device position. Current is the loose-accuracy fix
// taken when the submission form opens; HighAccuracy is requested again the
// moment a photo is attached.
type Locator interface {
	Current(ctx context.Context) (domain.Coordinates, error)
	HighAccuracy(ctx context.Context) (domain.Coordinates, error)
}
