package domain

// EventType discriminates the live events pushed over the admin channel.
type EventType string

const (
	EventReportCreated EventType = "report_created"
	EventReportUpdated EventType = "report_updated"
	EventReportDeleted EventType = "report_deleted"
)

// LiveEvent is one asynchronously pushed notification of report creation,
// update or deletion. Report is set for created/updated, ReportID for
// deleted.
type LiveEvent struct {
	Type     EventType `json:"type"`
	Report   *Report   `json:"report,omitempty"`
	ReportID string    `json:"report_id,omitempty"`
}

// TargetID returns the identifier of the report the event refers to.
func (e LiveEvent) TargetID() string {
	if e.Report != nil {
		return e.Report.ID
	}
	return e.ReportID
}

// KnownEventType reports whether t is one of the three event variants.
func KnownEventType(t EventType) bool {
	switch t {
	case EventReportCreated, EventReportUpdated, EventReportDeleted:
		return true
	}
	return false
}
