package ports

import (
	"context"

	"github.com/civiclens/portal-client/internal/core/domain"
)

// SignupInput carries the fields required to create an account.
type SignupInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// PhotoAttachment is an optional photo included with a report submission.
type PhotoAttachment struct {
	Filename string
	Content  []byte
}

// SubmitReportInput carries all data for a multipart report submission.
// Location is already resolved by the caller (photo fix, page-load fix or
// the fixed fallback).
type SubmitReportInput struct {
	Title       string `validate:"required"`
	Description string
	Category    domain.Category `validate:"required"`
	Location    domain.Coordinates
	Photo       *PhotoAttachment
}

// ResetRequestResult is returned by the forgot-password endpoint. ResetURL
// is populated by development servers to ease local testing.
type ResetRequestResult struct {
	Message  string `json:"message"`
	ResetURL string `json:"reset_url,omitempty"`
}

// Gateway is the remote portal API. Every method is one terminal remote
// round trip: failures are converted to the domain error taxonomy and
// surfaced at the call site, never retried.
type Gateway interface {
	Signup(ctx context.Context, in SignupInput) (*domain.UserRecord, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	ForgotPassword(ctx context.Context, email string) (*ResetRequestResult, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)

	ListReports(ctx context.Context, token string) ([]domain.Report, error)
	GetReport(ctx context.Context, token, reportID string) (*domain.Report, error)
	SubmitReport(ctx context.Context, in SubmitReportInput) (*domain.Report, error)

	// VoteUrgency returns the full updated report; the caller overwrites
	// its local copy verbatim.
	VoteUrgency(ctx context.Context, token, reportID string, level int) (*domain.Report, error)

	AssignReport(ctx context.Context, token, reportID string, departmentID int) error
	SetReportStatus(ctx context.Context, token, reportID string, status domain.ReportStatus) error
	DeleteReport(ctx context.Context, token, reportID string) error
}
