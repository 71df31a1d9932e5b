// Package gateway implements the remote portal API client. All business
// logic (authentication, assignment rules, status transitions, urgency
// scoring, persistence) lives on the server; this package only shapes
// requests and maps responses onto the domain error taxonomy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
)

// Client talks to the portal over HTTP. It satisfies ports.Gateway.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

var _ ports.Gateway = (*Client)(nil)

func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Signup creates an account. The portal accepts citizen self-signup only;
// admin accounts are provisioned out of band.
func (c *Client) Signup(ctx context.Context, in ports.SignupInput) (*domain.UserRecord, error) {
	body := map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
		"role":     domain.RoleCitizen,
	}
	var user domain.UserRecord
	if err := c.postJSON(ctx, "/auth/signup", body, &user); err != nil {
		return nil, err
	}
	if user.Email == "" {
		return nil, fmt.Errorf("%w: signup response missing email", domain.ErrNetwork)
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var sess domain.Session
	if err := c.postJSON(ctx, "/auth/login", body, &sess); err != nil {
		return nil, err
	}
	if sess.AccessToken == "" || sess.Role == "" {
		return nil, fmt.Errorf("%w: login response missing token or role", domain.ErrNetwork)
	}
	return &sess, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*ports.ResetRequestResult, error) {
	var out ports.ResetRequestResult
	if err := c.postJSON(ctx, "/auth/forgot-password", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	body := map[string]string{"token": token, "new_password": newPassword}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.postJSON(ctx, "/auth/reset-password", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ListReports(ctx context.Context, token string) ([]domain.Report, error) {
	var reports []domain.Report
	if err := c.do(ctx, http.MethodGet, "/api/v1/reports/", token, nil, "", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) GetReport(ctx context.Context, token, reportID string) (*domain.Report, error) {
	var report domain.Report
	if err := c.do(ctx, http.MethodGet, "/api/v1/reports/"+reportID, token, nil, "", &report); err != nil {
		return nil, err
	}
	if report.ID == "" {
		return nil, fmt.Errorf("%w: report response missing id", domain.ErrNetwork)
	}
	return &report, nil
}

// SubmitReport posts the complaint as one multipart form, photo included
// when present. No bearer token: submission is open to the public.
func (c *Client) SubmitReport(ctx context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"category":    string(in.Category),
		"lat":         strconv.FormatFloat(in.Location.Lat, 'f', -1, 64),
		"lng":         strconv.FormatFloat(in.Location.Lng, 'f', -1, 64),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
	}
	if in.Photo != nil {
		part, err := mw.CreateFormFile("photo", in.Photo.Filename)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
		if _, err := part.Write(in.Photo.Content); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	var report domain.Report
	if err := c.do(ctx, http.MethodPost, "/api/v1/reports/", "", &buf, mw.FormDataContentType(), &report); err != nil {
		return nil, err
	}
	if report.ID == "" {
		return nil, fmt.Errorf("%w: create response missing id", domain.ErrNetwork)
	}
	return &report, nil
}

// VoteUrgency submits one urgency vote and returns the server's
// authoritative updated report.
func (c *Client) VoteUrgency(ctx context.Context, token, reportID string, level int) (*domain.Report, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("urgency_level", strconv.Itoa(level)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	var out struct {
		OK     bool           `json:"ok"`
		Report *domain.Report `json:"report"`
	}
	path := "/api/v1/reports/" + reportID + "/vote"
	if err := c.do(ctx, http.MethodPost, path, token, &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	if out.Report == nil {
		return nil, fmt.Errorf("%w: vote response missing report", domain.ErrNetwork)
	}
	return out.Report, nil
}

func (c *Client) AssignReport(ctx context.Context, token, reportID string, departmentID int) error {
	path := fmt.Sprintf("/api/v1/reports/admin/assign/%s/%d", reportID, departmentID)
	return c.do(ctx, http.MethodPost, path, token, nil, "", nil)
}

func (c *Client) SetReportStatus(ctx context.Context, token, reportID string, status domain.ReportStatus) error {
	path := fmt.Sprintf("/api/v1/reports/admin/status/%s/%s", reportID, status)
	return c.do(ctx, http.MethodPost, path, token, nil, "", nil)
}

func (c *Client) DeleteReport(ctx context.Context, token, reportID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/reports/admin/delete/"+reportID, token, nil, "", nil)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	return c.do(ctx, http.MethodPost, path, "", bytes.NewReader(raw), "application/json", out)
}

// do runs one round trip. A non-nil out must be a JSON target; absence of
// expected fields is checked by the callers, not silently ignored.
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", domain.ErrNetwork, err)
	}
	return nil
}

// apiError is the portal's error envelope: detail is either a plain string
// or a list of structured field errors.
type apiError struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldDetail struct {
	Msg string `json:"msg"`
}

// decodeError maps a non-2xx response onto the domain taxonomy:
// 401/403 → unauthorized, 404 → not found, 400/422 → validation (first
// structured field message when the server returned a list), anything with
// an undecodable body → network error.
func (c *Client) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	message := extractDetail(raw)
	c.log.Debug().Int("status", resp.StatusCode).Str("detail", message).Msg("portal error response")

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message != "" {
			return fmt.Errorf("%w: %s", domain.ErrUnauthorized, message)
		}
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		if message != "" {
			return fmt.Errorf("%w: %s", domain.ErrReportNotFound, message)
		}
		return domain.ErrReportNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if message == "" {
			message = "request rejected"
		}
		return &domain.ValidationError{Message: message}
	}

	if message != "" {
		return fmt.Errorf("%w: %s", domain.ErrNetwork, message)
	}
	return fmt.Errorf("%w: unexpected status %d", domain.ErrNetwork, resp.StatusCode)
}

// extractDetail pulls the user-facing message out of an error body. It
// returns the first structured field message for 422-style lists, the
// plain detail string otherwise, the raw body as-is for non-JSON text, and
// "" when nothing usable is present.
func extractDetail(raw []byte) string {
	var envelope apiError
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		// Non-JSON bodies are surfaced verbatim (the portal sometimes
		// returns plain text).
		if len(raw) > 0 && !json.Valid(raw) {
			return string(raw)
		}
		return ""
	}

	var plain string
	if json.Unmarshal(envelope.Detail, &plain) == nil {
		return plain
	}
	var fields []fieldDetail
	if json.Unmarshal(envelope.Detail, &fields) == nil && len(fields) > 0 {
		return fields[0].Msg
	}
	return ""
}
