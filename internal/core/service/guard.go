package service

import "github.com/civiclens/portal-client/internal/core/domain"

// GuardDecision is the outcome of a route-guard check.
type GuardDecision int

const (
	// Grant renders the protected content.
	Grant GuardDecision = iota
	// RedirectAuth sends unauthenticated navigation to the login view.
	RedirectAuth
	// RedirectHome sends authenticated but unauthorized navigation to the
	// general home view.
	RedirectHome
)

// Authorize is the route guard: a pure function of the current session,
// recomputed on every navigation. It is advisory only; authorization is
// enforced by the server, not here.
func Authorize(s *domain.Session, adminOnly bool) GuardDecision {
	if s == nil {
		return RedirectAuth
	}
	if adminOnly && !s.IsAdmin() {
		return RedirectHome
	}
	return Grant
}

// Target maps a guard decision to its navigation target. Grant has no
// target and returns the empty string.
func (d GuardDecision) Target() NavigationTarget {
	switch d {
	case RedirectAuth:
		return NavAuth
	case RedirectHome:
		return NavHome
	default:
		return ""
	}
}
