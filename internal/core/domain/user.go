package domain

import "errors"

const (
	RoleAdmin   = "admin"
	RoleCitizen = "citizen"
)

// ErrUnauthorized covers both a missing/expired credential and a role the
// server refuses (401 and 403 alike); the client reacts the same way to
// both.
var ErrUnauthorized = errors.New("unauthorized")

// Session is the locally held authenticated identity: the bearer token plus
// the display fields the portal returns on login. It is the only durable
// state this client owns; it is persisted as a single JSON blob and
// rehydrated on startup.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Name        string `json:"user_name"`
	Email       string `json:"user_email"`
	Role        string `json:"role"`
}

// IsAdmin reports whether the session carries the admin role. Admin is the
// only credential permitted to reach assignment, status, delete and
// list-all operations; the server enforces this, the client only routes.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// UserRecord is the public view of an account returned by signup.
type UserRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
