package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
)

// ErrVoteInFlight means a vote on this report is still awaiting its round
// trip.
var ErrVoteInFlight = errors.New("a vote is already being submitted")

// StatusView is the public report-detail view: one fetched report, the
// viewer's identity for vote gating, and the urgency-vote round trip whose
// response is taken verbatim as the new local state.
type StatusView struct {
	gw      ports.Gateway
	session *domain.Session
	log     zerolog.Logger

	mu     sync.Mutex
	report *domain.Report
	voting bool
	// voted holds the level cast locally this run. The server-side vote
	// list keyed by voter identity seeds it on fetch.
	voted *int
}

func NewStatusView(gw ports.Gateway, session *domain.Session, log zerolog.Logger) *StatusView {
	return &StatusView{gw: gw, session: session, log: log}
}

// LookupMessage maps a fetch failure to its user-facing text. 404 and 401
// get distinct messages; everything else is a generic fetch failure.
func LookupMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrReportNotFound):
		return "Report not found. Please check the ID and try again."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized. Please log in."
	default:
		return "Failed to fetch report."
	}
}

// Lookup fetches one report by identifier and makes it the current view.
func (v *StatusView) Lookup(ctx context.Context, reportID string) (*domain.Report, error) {
	if v.session == nil {
		return nil, domain.ErrUnauthorized
	}
	report, err := v.gw.GetReport(ctx, v.session.AccessToken, reportID)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.report = report
	v.voted = nil
	if vote := report.VoteBy(v.session.Email); vote != nil {
		level := vote.Level
		v.voted = &level
	}
	v.mu.Unlock()
	return report, nil
}

// Report returns the currently viewed report, or nil.
func (v *StatusView) Report() *domain.Report {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.report
}

// VotedLevel returns the viewer's cast level, or nil when they have not
// voted on the current report.
func (v *StatusView) VotedLevel() *int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.voted == nil {
		return nil
	}
	level := *v.voted
	return &level
}

// CanVote implements the button gating: once a local vote exists, every
// level except the already-cast one is disabled, and nothing is enabled
// while a round trip is outstanding.
func (v *StatusView) CanVote(level int) bool {
	if level < domain.MinUrgencyLevel || level > domain.MaxUrgencyLevel {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.voting {
		return false
	}
	return v.voted == nil || *v.voted == level
}

// Vote submits an urgency vote. The server response carries the
// authoritative report (score and count are never computed client-side)
// and overwrites local state verbatim.
func (v *StatusView) Vote(ctx context.Context, level int) (*domain.Report, error) {
	if level < domain.MinUrgencyLevel || level > domain.MaxUrgencyLevel {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("urgency level must be between %d and %d", domain.MinUrgencyLevel, domain.MaxUrgencyLevel)}
	}
	if v.session == nil {
		return nil, domain.ErrUnauthorized
	}

	v.mu.Lock()
	if v.report == nil {
		v.mu.Unlock()
		return nil, domain.ErrReportNotFound
	}
	if v.voting {
		v.mu.Unlock()
		return nil, ErrVoteInFlight
	}
	v.voting = true
	reportID := v.report.ID
	v.mu.Unlock()

	updated, err := v.gw.VoteUrgency(ctx, v.session.AccessToken, reportID, level)

	v.mu.Lock()
	v.voting = false
	if err == nil {
		v.report = updated
		v.voted = &level
	}
	v.mu.Unlock()

	if err != nil {
		v.log.Error().Err(err).Str("report_id", reportID).Int("level", level).Msg("urgency vote failed")
		return nil, err
	}
	v.log.Info().Str("report_id", reportID).Int("level", level).Float64("score", updated.UrgencyScore).Msg("urgency vote recorded")
	return updated, nil
}

// ListAll fetches the full recent-reports list for the optional browse
// view.
func (v *StatusView) ListAll(ctx context.Context) ([]domain.Report, error) {
	if v.session == nil {
		return nil, domain.ErrUnauthorized
	}
	return v.gw.ListReports(ctx, v.session.AccessToken)
}

// TimelineStep is one rendered entry of the status timeline.
type TimelineStep struct {
	Label  string
	Detail string
}

// Timeline derives the status history shown under a report: submission is
// always present, later steps appear as the status reaches them.
func Timeline(r *domain.Report) []TimelineStep {
	steps := []TimelineStep{{
		Label:  "Report Submitted",
		Detail: r.CreatedAt.Local().Format("Jan 2, 2006 3:04 PM"),
	}}

	if r.Status != domain.StatusNew {
		step := TimelineStep{Label: "Report Acknowledged"}
		if r.AssignedTo != nil {
			step.Detail = "Assigned to " + domain.DepartmentName(*r.AssignedTo)
		}
		steps = append(steps, step)
	}
	if r.Status == domain.StatusInProgress {
		steps = append(steps, TimelineStep{Label: "Work In Progress", Detail: "Resolution is underway"})
	}
	if r.Status == domain.StatusResolved {
		steps = append(steps, TimelineStep{Label: "Issue Resolved", Detail: "Thank you for your report"})
	}
	return steps
}
