package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
	"github.com/civiclens/portal-client/internal/metrics"
)

// FilterAll disables a filter dimension.
const FilterAll = "all"

// ErrReportBusy means another action on the same report is still in
// flight. Actions against different reports proceed independently.
var ErrReportBusy = errors.New("an action on this report is already in progress")

// MergeEvent applies one live event to the report collection and returns
// the next collection. The rule is pure and keeps the dedup invariant: for
// any event sequence, at most one entry per identifier exists.
//
//   - report_created: prepend unless the identifier is already present.
//   - report_updated: replace the matching entry; absent → no-op.
//   - report_deleted: remove the matching entry; absent → no-op.
func MergeEvent(reports []domain.Report, ev domain.LiveEvent) []domain.Report {
	switch ev.Type {
	case domain.EventReportCreated:
		if ev.Report == nil {
			return reports
		}
		for i := range reports {
			if reports[i].ID == ev.Report.ID {
				return reports
			}
		}
		next := make([]domain.Report, 0, len(reports)+1)
		next = append(next, *ev.Report)
		return append(next, reports...)

	case domain.EventReportUpdated:
		if ev.Report == nil {
			return reports
		}
		for i := range reports {
			if reports[i].ID == ev.Report.ID {
				next := make([]domain.Report, len(reports))
				copy(next, reports)
				next[i] = *ev.Report
				return next
			}
		}
		return reports

	case domain.EventReportDeleted:
		for i := range reports {
			if reports[i].ID == ev.ReportID {
				next := make([]domain.Report, 0, len(reports)-1)
				next = append(next, reports[:i]...)
				return append(next, reports[i+1:]...)
			}
		}
		return reports
	}
	return reports
}

// DashboardStats is the admin header summary derived from the unfiltered
// mirror.
type DashboardStats struct {
	Total      int
	New        int
	InProgress int // includes acknowledged, as the portal header does
	Resolved   int
}

// Dashboard keeps the admin view's authoritative local mirror of the
// report collection in sync: one full fetch at startup, then live events
// merged as they arrive. Two independent filters narrow the rendered view;
// admin mutations go through fire-and-forget remote calls gated by a
// per-report busy flag.
type Dashboard struct {
	gw      ports.Gateway
	dialer  ports.StreamDialer
	session *domain.Session
	log     zerolog.Logger

	mu             sync.Mutex
	reports        []domain.Report
	statusFilter   string
	categoryFilter string
	busy           map[string]bool
	stream         ports.EventStream
	done           chan struct{}
}

func NewDashboard(gw ports.Gateway, dialer ports.StreamDialer, session *domain.Session, log zerolog.Logger) *Dashboard {
	return &Dashboard{
		gw:             gw,
		dialer:         dialer,
		session:        session,
		log:            log,
		statusFilter:   FilterAll,
		categoryFilter: FilterAll,
		busy:           make(map[string]bool),
	}
}

// Start fetches the full report collection, then opens the push channel
// with the same credential and merges events until the stream ends or Stop
// is called. OnEvent, when non-nil, runs after each merge (render hook).
func (d *Dashboard) Start(ctx context.Context, onEvent func(domain.LiveEvent)) error {
	reports, err := d.gw.ListReports(ctx, d.session.AccessToken)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	stream, err := d.dialer.Dial(ctx, d.session.AccessToken)
	if err != nil {
		return fmt.Errorf("open event stream: %w", err)
	}

	d.mu.Lock()
	d.reports = reports
	d.stream = stream
	d.done = make(chan struct{})
	d.mu.Unlock()

	go d.consume(stream, onEvent)
	d.log.Info().Int("reports", len(reports)).Msg("dashboard synchronized")
	return nil
}

func (d *Dashboard) consume(stream ports.EventStream, onEvent func(domain.LiveEvent)) {
	defer close(d.done)
	for ev := range stream.Events() {
		d.apply(ev)
		if onEvent != nil {
			onEvent(ev)
		}
	}
	// Channel closed: the connection dropped or the view was torn down.
	// No reconnection: live updates stop until the view remounts.
	d.log.Debug().Msg("event stream ended")
}

func (d *Dashboard) apply(ev domain.LiveEvent) {
	d.mu.Lock()
	before := len(d.reports)
	d.reports = MergeEvent(d.reports, ev)
	after := len(d.reports)
	d.mu.Unlock()

	result := "applied"
	if ev.Type == domain.EventReportCreated && after == before {
		result = "duplicate"
	}
	metrics.EventsMergedTotal.WithLabelValues(string(ev.Type), result).Inc()
	d.log.Debug().Str("type", string(ev.Type)).Str("report_id", ev.TargetID()).Msg("event merged")
}

// Stop tears the view down, closing the push channel. Close errors are
// swallowed: a failed close of a dying connection is not actionable.
func (d *Dashboard) Stop() {
	d.mu.Lock()
	stream := d.stream
	done := d.done
	d.stream = nil
	d.mu.Unlock()

	if stream != nil {
		_ = stream.Close()
	}
	if done != nil {
		<-done
	}
}

// SetStatusFilter narrows the view to one status, or FilterAll.
func (d *Dashboard) SetStatusFilter(status string) {
	d.mu.Lock()
	d.statusFilter = status
	d.mu.Unlock()
}

// SetCategoryFilter narrows the view to one category, or FilterAll.
func (d *Dashboard) SetCategoryFilter(category string) {
	d.mu.Lock()
	d.categoryFilter = category
	d.mu.Unlock()
}

// Reports returns a snapshot of the unfiltered mirror, newest live-created
// first.
func (d *Dashboard) Reports() []domain.Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Report, len(d.reports))
	copy(out, d.reports)
	return out
}

// Filtered returns the reports matching the conjunction of both filters.
func (d *Dashboard) Filtered() []domain.Report {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []domain.Report
	for _, r := range d.reports {
		if d.statusFilter != FilterAll && string(r.Status) != d.statusFilter {
			continue
		}
		if d.categoryFilter != FilterAll && string(r.Category) != d.categoryFilter {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Stats summarizes the unfiltered mirror for the dashboard header.
func (d *Dashboard) Stats() DashboardStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := DashboardStats{Total: len(d.reports)}
	for _, r := range d.reports {
		switch r.Status {
		case domain.StatusNew:
			stats.New++
		case domain.StatusAcknowledged, domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusResolved:
			stats.Resolved++
		}
	}
	return stats
}

// Busy reports whether an action on the given report is in flight.
func (d *Dashboard) Busy(reportID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy[reportID]
}

func (d *Dashboard) acquire(reportID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy[reportID] {
		return false
	}
	d.busy[reportID] = true
	return true
}

func (d *Dashboard) release(reportID string) {
	d.mu.Lock()
	delete(d.busy, reportID)
	d.mu.Unlock()
}

// Assign routes a report to a department. No optimistic local mutation:
// the next live event (the server broadcasts report_updated) is the source
// of truth, and on failure local state is untouched.
func (d *Dashboard) Assign(ctx context.Context, reportID string, departmentID int) error {
	if !d.acquire(reportID) {
		return ErrReportBusy
	}
	defer d.release(reportID)

	if err := d.gw.AssignReport(ctx, d.session.AccessToken, reportID, departmentID); err != nil {
		d.log.Error().Err(err).Str("report_id", reportID).Int("department", departmentID).Msg("assign failed")
		return err
	}
	d.log.Info().Str("report_id", reportID).Str("department", domain.DepartmentName(departmentID)).Msg("report assigned")
	return nil
}

// SetStatus sets a report's status directly. Same non-optimistic rule as
// Assign.
func (d *Dashboard) SetStatus(ctx context.Context, reportID string, status domain.ReportStatus) error {
	if !domain.ValidStatus(status) {
		return &domain.ValidationError{Message: fmt.Sprintf("unknown status %q", status)}
	}
	if !d.acquire(reportID) {
		return ErrReportBusy
	}
	defer d.release(reportID)

	if err := d.gw.SetReportStatus(ctx, d.session.AccessToken, reportID, status); err != nil {
		d.log.Error().Err(err).Str("report_id", reportID).Str("status", string(status)).Msg("status update failed")
		return err
	}
	d.log.Info().Str("report_id", reportID).Str("status", string(status)).Msg("status updated")
	return nil
}

// Delete removes a report. The local entry is dropped only after remote
// confirmation; the eventual report_deleted event is then a no-op.
func (d *Dashboard) Delete(ctx context.Context, reportID string) error {
	if !d.acquire(reportID) {
		return ErrReportBusy
	}
	defer d.release(reportID)

	if err := d.gw.DeleteReport(ctx, d.session.AccessToken, reportID); err != nil {
		d.log.Error().Err(err).Str("report_id", reportID).Msg("delete failed")
		return err
	}

	d.mu.Lock()
	d.reports = MergeEvent(d.reports, domain.LiveEvent{Type: domain.EventReportDeleted, ReportID: reportID})
	d.mu.Unlock()

	d.log.Info().Str("report_id", reportID).Msg("report deleted")
	return nil
}
