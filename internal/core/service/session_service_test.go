package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub gateway shared by the service tests
// ---------------------------------------------------------------------------

type stubGateway struct {
	signupFn    func(ctx context.Context, in ports.SignupInput) (*domain.UserRecord, error)
	loginFn     func(ctx context.Context, email, password string) (*domain.Session, error)
	forgotFn    func(ctx context.Context, email string) (*ports.ResetRequestResult, error)
	resetFn     func(ctx context.Context, token, newPassword string) (string, error)
	listFn      func(ctx context.Context, token string) ([]domain.Report, error)
	getFn       func(ctx context.Context, token, reportID string) (*domain.Report, error)
	submitFn    func(ctx context.Context, in ports.SubmitReportInput) (*domain.Report, error)
	voteFn      func(ctx context.Context, token, reportID string, level int) (*domain.Report, error)
	assignFn    func(ctx context.Context, token, reportID string, departmentID int) error
	setStatusFn func(ctx context.Context, token, reportID string, status domain.ReportStatus) error
	deleteFn    func(ctx context.Context, token, reportID string) error
}

func (g *stubGateway) Signup(ctx context.Context, in ports.SignupInput) (*domain.UserRecord, error) {
	if g.signupFn == nil {
		return nil, fmt.Errorf("unexpected Signup call")
	}
	return g.signupFn(ctx, in)
}

func (g *stubGateway) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if g.loginFn == nil {
		return nil, fmt.Errorf("unexpected Login call")
	}
	return g.loginFn(ctx, email, password)
}

func (g *stubGateway) ForgotPassword(ctx context.Context, email string) (*ports.ResetRequestResult, error) {
	if g.forgotFn == nil {
		return nil, fmt.Errorf("unexpected ForgotPassword call")
	}
	return g.forgotFn(ctx, email)
}

func (g *stubGateway) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	if g.resetFn == nil {
		return "", fmt.Errorf("unexpected ResetPassword call")
	}
	return g.resetFn(ctx, token, newPassword)
}

func (g *stubGateway) ListReports(ctx context.Context, token string) ([]domain.Report, error) {
	if g.listFn == nil {
		return nil, fmt.Errorf("unexpected ListReports call")
	}
	return g.listFn(ctx, token)
}

func (g *stubGateway) GetReport(ctx context.Context, token, reportID string) (*domain.Report, error) {
	if g.getFn == nil {
		return nil, fmt.Errorf("unexpected GetReport call")
	}
	return g.getFn(ctx, token, reportID)
}

func (g *stubGateway) SubmitReport(ctx context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
	if g.submitFn == nil {
		return nil, fmt.Errorf("unexpected SubmitReport call")
	}
	return g.submitFn(ctx, in)
}

func (g *stubGateway) VoteUrgency(ctx context.Context, token, reportID string, level int) (*domain.Report, error) {
	if g.voteFn == nil {
		return nil, fmt.Errorf("unexpected VoteUrgency call")
	}
	return g.voteFn(ctx, token, reportID, level)
}

func (g *stubGateway) AssignReport(ctx context.Context, token, reportID string, departmentID int) error {
	if g.assignFn == nil {
		return fmt.Errorf("unexpected AssignReport call")
	}
	return g.assignFn(ctx, token, reportID, departmentID)
}

func (g *stubGateway) SetReportStatus(ctx context.Context, token, reportID string, status domain.ReportStatus) error {
	if g.setStatusFn == nil {
		return fmt.Errorf("unexpected SetReportStatus call")
	}
	return g.setStatusFn(ctx, token, reportID, status)
}

func (g *stubGateway) DeleteReport(ctx context.Context, token, reportID string) error {
	if g.deleteFn == nil {
		return fmt.Errorf("unexpected DeleteReport call")
	}
	return g.deleteFn(ctx, token, reportID)
}

// ---------------------------------------------------------------------------
// In-memory session storage
// ---------------------------------------------------------------------------

type memStorage struct {
	saved   *domain.Session
	loadErr error
	saveErr error
	cleared bool
}

func (m *memStorage) Load() (*domain.Session, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved, nil
}

func (m *memStorage) Save(s *domain.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = s
	return nil
}

func (m *memStorage) Clear() error {
	m.saved = nil
	m.cleared = true
	return nil
}

var discardLogger = zerolog.Nop()

func adminSession() *domain.Session {
	return &domain.Session{AccessToken: "tok-admin", Name: "Asha", Email: "asha@example.com", Role: domain.RoleAdmin}
}

func citizenSession() *domain.Session {
	return &domain.Session{AccessToken: "tok-cit", Name: "Ravi", Email: "ravi@example.com", Role: domain.RoleCitizen}
}

// ---------------------------------------------------------------------------
// Login / logout
// ---------------------------------------------------------------------------

func TestSessionService_Login_AdminRoutesToDashboard(t *testing.T) {
	store := &memStorage{}
	gw := &stubGateway{loginFn: func(_ context.Context, email, password string) (*domain.Session, error) {
		if email != "asha@example.com" || password != "secret" {
			t.Fatalf("unexpected credentials: %s %s", email, password)
		}
		return adminSession(), nil
	}}
	svc := NewSessionService(gw, store, discardLogger)

	target, err := svc.Login(context.Background(), "asha@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != NavAdmin {
		t.Errorf("expected %q, got %q", NavAdmin, target)
	}
	if svc.Current() == nil || svc.Current().Role != domain.RoleAdmin {
		t.Error("session not stored in memory")
	}
	if store.saved == nil || store.saved.AccessToken != "tok-admin" {
		t.Error("session not persisted")
	}
}

func TestSessionService_Login_CitizenRoutesHome(t *testing.T) {
	svc := NewSessionService(&stubGateway{loginFn: func(context.Context, string, string) (*domain.Session, error) {
		return citizenSession(), nil
	}}, &memStorage{}, discardLogger)

	target, err := svc.Login(context.Background(), "ravi@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != NavHome {
		t.Errorf("expected %q, got %q", NavHome, target)
	}
}

func TestSessionService_Login_FailureLeavesSessionUnchanged(t *testing.T) {
	store := &memStorage{}
	svc := NewSessionService(&stubGateway{loginFn: func(context.Context, string, string) (*domain.Session, error) {
		return nil, domain.ErrUnauthorized
	}}, store, discardLogger)

	_, err := svc.Login(context.Background(), "asha@example.com", "wrong")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if svc.Current() != nil {
		t.Error("session must stay nil after failed login")
	}
	if store.saved != nil {
		t.Error("nothing should be persisted after failed login")
	}
}

func TestSessionService_Login_SurvivesPersistFailure(t *testing.T) {
	store := &memStorage{saveErr: errors.New("disk full")}
	svc := NewSessionService(&stubGateway{loginFn: func(context.Context, string, string) (*domain.Session, error) {
		return citizenSession(), nil
	}}, store, discardLogger)

	if _, err := svc.Login(context.Background(), "ravi@example.com", "pw"); err != nil {
		t.Fatalf("login should succeed despite persist failure: %v", err)
	}
	if svc.Current() == nil {
		t.Error("in-memory session should survive a persist failure")
	}
}

func TestSessionService_Logout_ClearsEverything(t *testing.T) {
	store := &memStorage{saved: adminSession()}
	svc := NewSessionService(&stubGateway{}, store, discardLogger)
	svc.Rehydrate()
	if svc.Current() == nil {
		t.Fatal("precondition: session should be rehydrated")
	}

	target := svc.Logout()
	if target != NavEntry {
		t.Errorf("expected %q, got %q", NavEntry, target)
	}
	if svc.Current() != nil {
		t.Error("session must be cleared from memory")
	}
	if !store.cleared {
		t.Error("storage must be cleared")
	}
}

// ---------------------------------------------------------------------------
// Signup
// ---------------------------------------------------------------------------

func TestSessionService_Signup_DoesNotTouchSession(t *testing.T) {
	svc := NewSessionService(&stubGateway{signupFn: func(_ context.Context, in ports.SignupInput) (*domain.UserRecord, error) {
		return &domain.UserRecord{Name: in.Name, Email: in.Email, Role: domain.RoleCitizen}, nil
	}}, &memStorage{}, discardLogger)

	user, err := svc.Signup(context.Background(), ports.SignupInput{Name: "Ravi", Email: "ravi@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "ravi@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if svc.Current() != nil {
		t.Error("signup must not create a session")
	}
}

func TestSessionService_Signup_ValidatesBeforeWire(t *testing.T) {
	called := false
	svc := NewSessionService(&stubGateway{signupFn: func(context.Context, ports.SignupInput) (*domain.UserRecord, error) {
		called = true
		return nil, nil
	}}, &memStorage{}, discardLogger)

	_, err := svc.Signup(context.Background(), ports.SignupInput{Name: "x", Email: "not-an-email", Password: "secret1"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Error("gateway must not be called for invalid input")
	}
}

// ---------------------------------------------------------------------------
// Rehydration
// ---------------------------------------------------------------------------

func TestSessionService_Rehydrate_CorruptBlobIsNoSession(t *testing.T) {
	store := &memStorage{loadErr: errors.New("parse session file: unexpected end of JSON input")}
	svc := NewSessionService(&stubGateway{}, store, discardLogger)

	svc.Rehydrate() // must not panic
	if svc.Current() != nil {
		t.Error("corrupt blob must yield no session")
	}
}

func TestSessionService_Rehydrate_MissingBlobIsNoSession(t *testing.T) {
	svc := NewSessionService(&stubGateway{}, &memStorage{}, discardLogger)
	svc.Rehydrate()
	if svc.Current() != nil {
		t.Error("empty storage must yield no session")
	}
}

func TestSessionService_Rehydrate_RestoresSession(t *testing.T) {
	svc := NewSessionService(&stubGateway{}, &memStorage{saved: citizenSession()}, discardLogger)
	svc.Rehydrate()
	sess := svc.Current()
	if sess == nil || sess.Email != "ravi@example.com" {
		t.Fatalf("expected rehydrated citizen session, got %+v", sess)
	}
}
