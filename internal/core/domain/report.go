package domain

import (
	"errors"
	"fmt"
	"time"
)

// ReportStatus represents the lifecycle state of a civic-issue report.
// The usual progression is new → acknowledged → in_progress → resolved,
// but it is not strictly monotonic: an admin may set any status directly.
type ReportStatus string

const (
	StatusNew          ReportStatus = "new"
	StatusAcknowledged ReportStatus = "acknowledged"
	StatusInProgress   ReportStatus = "in_progress"
	StatusResolved     ReportStatus = "resolved"
)

// Category classifies the kind of civic issue being reported.
type Category string

const (
	CategoryPothole     Category = "pothole"
	CategoryStreetlight Category = "streetlight"
	CategoryGarbage     Category = "garbage"
	CategoryDrainage    Category = "drainage"
	CategoryRoad        Category = "road"
	CategoryOther       Category = "other"
)

// Statuses lists every valid report status, in lifecycle order.
func Statuses() []ReportStatus {
	return []ReportStatus{StatusNew, StatusAcknowledged, StatusInProgress, StatusResolved}
}

// Categories lists the closed set of report categories.
func Categories() []Category {
	return []Category{
		CategoryPothole, CategoryStreetlight, CategoryGarbage,
		CategoryDrainage, CategoryRoad, CategoryOther,
	}
}

// ValidStatus reports whether s is a member of the status set.
func ValidStatus(s ReportStatus) bool {
	switch s {
	case StatusNew, StatusAcknowledged, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ValidCategory reports whether c is a member of the category set.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryPothole, CategoryStreetlight, CategoryGarbage,
		CategoryDrainage, CategoryRoad, CategoryOther:
		return true
	}
	return false
}

var ErrReportNotFound = errors.New("report not found")

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FallbackLocation is used when no geolocation fix could be obtained.
var FallbackLocation = Coordinates{Lat: 23.6102, Lng: 85.2799}

// UrgencyVote is one viewer's 1–5 priority rating on a report. A voter has
// at most one vote per report; re-voting overwrites server-side.
type UrgencyVote struct {
	VoterID string `json:"user_id"`
	Level   int    `json:"vote"`
}

// Report is a submitted civic complaint record as returned by the portal
// API. Urgency score and vote count are server-computed aggregates and are
// never recalculated on the client.
type Report struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    Category     `json:"category"`
	Status      ReportStatus `json:"status"`
	Location    *Coordinates `json:"location,omitempty"`
	PhotoURL    string       `json:"photo_url,omitempty"`
	AssignedTo  *int         `json:"assigned_to,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at,omitempty"`

	UrgencyScore float64       `json:"urgency_score"`
	UrgencyVotes int           `json:"urgency_votes_count"`
	Votes        []UrgencyVote `json:"urgency_votes,omitempty"`
}

// VoteBy returns the vote cast by the given voter, or nil if none exists.
func (r *Report) VoteBy(voterID string) *UrgencyVote {
	for i := range r.Votes {
		if r.Votes[i].VoterID == voterID {
			return &r.Votes[i]
		}
	}
	return nil
}

// MinUrgencyLevel and MaxUrgencyLevel bound a single urgency vote.
const (
	MinUrgencyLevel = 1
	MaxUrgencyLevel = 5
)

// UrgencyLabel maps an aggregate urgency score to its qualitative label.
//
// The "Votes" branch for 0 < score < 1.5 reproduces the portal's observed
// behaviour and is covered by tests; do not "fix" it without a product
// decision.
func UrgencyLabel(score float64) string {
	switch {
	case score == 0:
		return "No votes"
	case score >= 4.5:
		return "Critical"
	case score >= 3.5:
		return "High"
	case score >= 2.5:
		return "Medium"
	case score >= 1.5:
		return "Low"
	default:
		return "Votes"
	}
}

// departmentNames maps the portal's assignable department identifiers to
// display names.
var departmentNames = map[int]string{
	2: "Public Works",
	3: "Streetlight Dept",
	4: "Garbage Dept",
}

// DepartmentName returns the display name for a department identifier,
// falling back to "Department <id>" for unknown ids.
func DepartmentName(id int) string {
	if name, ok := departmentNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Department %d", id)
}

// Departments returns the assignable department ids in ascending order.
func Departments() []int {
	return []int{2, 3, 4}
}
