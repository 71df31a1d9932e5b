// Package geo stands in for the browser geolocation API. Coordinates come
// from configuration (or flags); an absent fix behaves like a denied
// permission prompt, which the submission flow answers with the fixed
// fallback coordinate.
package geo

import (
	"context"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
)

// StaticLocator serves configured fixes. precise is the high-accuracy fix
// requested at photo-attach time; when unset the loose fix is reused, and
// when neither is set every lookup reports unavailable.
type StaticLocator struct {
	fix     *domain.Coordinates
	precise *domain.Coordinates
}

var _ ports.Locator = (*StaticLocator)(nil)

func NewStaticLocator(fix, precise *domain.Coordinates) *StaticLocator {
	return &StaticLocator{fix: fix, precise: precise}
}

func (l *StaticLocator) Current(_ context.Context) (domain.Coordinates, error) {
	if l.fix == nil {
		return domain.Coordinates{}, ports.ErrLocationUnavailable
	}
	return *l.fix, nil
}

func (l *StaticLocator) HighAccuracy(ctx context.Context) (domain.Coordinates, error) {
	if l.precise != nil {
		return *l.precise, nil
	}
	return l.Current(ctx)
}
