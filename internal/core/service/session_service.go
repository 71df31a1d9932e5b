package service

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
)

// NavigationTarget is the view a session operation routes to.
type NavigationTarget string

const (
	// NavAdmin is the admin dashboard, reached after an admin login.
	NavAdmin NavigationTarget = "/admin"
	// NavHome is the general home view.
	NavHome NavigationTarget = "/home"
	// NavEntry is the public landing view, reached after logout.
	NavEntry NavigationTarget = "/"
	// NavAuth is the login/signup view, where unauthenticated navigation
	// is redirected.
	NavAuth NavigationTarget = "/auth"
)

// SessionService owns the current session: login/signup/logout against the
// portal plus persistence to and rehydration from local storage. It is the
// single process-wide mutable piece of identity state.
type SessionService struct {
	gw      ports.Gateway
	storage ports.SessionStorage
	log     zerolog.Logger

	mu      sync.RWMutex
	current *domain.Session
}

func NewSessionService(gw ports.Gateway, storage ports.SessionStorage, log zerolog.Logger) *SessionService {
	return &SessionService{gw: gw, storage: storage, log: log}
}

// Current returns the in-memory session, or nil when logged out.
func (s *SessionService) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Rehydrate restores a persisted session at process start. A missing or
// unparsable blob yields no session and never an error; an expired token is
// kept (the server will reject it with 401) but logged.
func (s *SessionService) Rehydrate() {
	sess, err := s.storage.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding unreadable session blob")
		return
	}
	if sess == nil {
		return
	}
	if expired, exp := tokenExpired(sess.AccessToken); expired {
		s.log.Warn().Time("expired_at", exp).Str("email", sess.Email).Msg("persisted token is expired")
	}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	s.log.Debug().Str("email", sess.Email).Str("role", sess.Role).Msg("session rehydrated")
}

// Signup creates an account. It never mutates session state; the caller
// still has to log in.
func (s *SessionService) Signup(ctx context.Context, in ports.SignupInput) (*domain.UserRecord, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	user, err := s.gw.Signup(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("email", user.Email).Msg("account created")
	return user, nil
}

// Login authenticates against the portal. On success the session is stored
// in memory and in durable storage, and the returned target routes admins
// to the dashboard and everyone else home. On failure the session is
// unchanged.
func (s *SessionService) Login(ctx context.Context, email, password string) (NavigationTarget, error) {
	sess, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	if err := s.storage.Save(sess); err != nil {
		// The in-memory session is still valid for this run.
		s.log.Warn().Err(err).Msg("failed to persist session")
	}

	s.log.Info().Str("email", sess.Email).Str("role", sess.Role).Msg("logged in")
	if sess.IsAdmin() {
		return NavAdmin, nil
	}
	return NavHome, nil
}

// Logout clears the session from memory and storage. Purely local: the
// bearer token is not revoked server-side.
func (s *SessionService) Logout() NavigationTarget {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
	s.log.Info().Msg("logged out")
	return NavEntry
}

// ForgotPassword requests a reset link for the given address.
func (s *SessionService) ForgotPassword(ctx context.Context, email string) (*ports.ResetRequestResult, error) {
	return s.gw.ForgotPassword(ctx, email)
}

// ResetPassword consumes a reset token.
func (s *SessionService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return s.gw.ResetPassword(ctx, token, newPassword)
}

// tokenExpired inspects the bearer token's exp claim without verifying the
// signature (the client has no signing key; verification is the server's
// job). Unparsable tokens report as not expired and are left for the
// server to reject.
func tokenExpired(token string) (bool, time.Time) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, time.Time{}
	}
	return exp.Before(time.Now()), exp.Time
}
