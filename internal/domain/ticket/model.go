package ticket

import (
	"time"

	"github.com/safelive/backend/internal/domain/incident"
)

type Department string

const (
	DepartmentSanitation  Department = "Sanitation"
	DepartmentRoad        Department = "Road"
	DepartmentElectricity Department = "Electricity"
	DepartmentWater       Department = "Water"
	DepartmentPolice      Department = "Police"
)

// DepartmentFor routes an incident category to the department that works
// its tickets. Unknown categories (including edge/AI detections) default
// to Sanitation, the catch-all civic crew.
func DepartmentFor(c incident.Category) Department {
	switch c {
	case incident.CategoryPothole:
		return DepartmentRoad
	case incident.CategoryGarbage:
		return DepartmentSanitation
	case incident.CategoryWater:
		return DepartmentWater
	case incident.CategoryStreetlight:
		return DepartmentElectricity
	case incident.CategorySecurity:
		return DepartmentPolice
	}
	return DepartmentSanitation
}

// Status is the workflow state. Tickets additionally pass through
// "verified", an internal waypoint the incident mirror does not expose.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusVerified   Status = "verified"
	StatusResolved   Status = "resolved"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusVerified, StatusResolved:
		return true
	}
	return false
}

// IncidentStatus projects a ticket status onto the citizen-visible
// incident state set.
func (s Status) IncidentStatus() incident.Status {
	switch s {
	case StatusOpen:
		return incident.StatusOpen
	case StatusResolved:
		return incident.StatusResolved
	default:
		// in_progress and the internal verified waypoint both show as
		// in_progress to the reporter.
		return incident.StatusInProgress
	}
}

type Ticket struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	IncidentID uint `gorm:"not null;uniqueIndex" json:"incidentId"`

	// Denormalized from the incident so ticket lists and filters never
	// need a join.
	Title    string            `gorm:"size:200;not null" json:"title"`
	Category incident.Category `gorm:"size:20;not null;index" json:"category"`
	Location string            `gorm:"size:500" json:"location"`

	Department Department        `gorm:"size:30;not null;index" json:"department"`
	Priority   incident.Priority `gorm:"size:10;not null;default:'medium';index" json:"priority"`
	Status     Status            `gorm:"size:15;not null;default:'open';index" json:"status"`

	// Assignment is informational: free-text contact details for the field
	// worker, not a user reference. Permission checks always use the
	// authenticated caller's role.
	AssigneeName     *string `gorm:"size:100" json:"assigneeName,omitempty"`
	AssigneePhone    *string `gorm:"size:20" json:"assigneePhone,omitempty"`
	AssigneePhotoURL *string `gorm:"size:500" json:"assigneePhotoUrl,omitempty"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	// Reopen warning left by a head supervisor; visible read-only to the
	// assigned official.
	ReopenSupervisor *string    `gorm:"size:100" json:"reopenSupervisor,omitempty"`
	ReopenMessage    *string    `gorm:"type:text" json:"reopenMessage,omitempty"`
	ReopenAt         *time.Time `json:"reopenAt,omitempty"`

	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`

	// Version backs the per-ticket compare-and-swap; concurrent writers
	// lose with a conflict instead of silently clobbering each other.
	Version int `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// Assigned reports whether the ticket has a field worker on it. Progress
// beyond open requires this.
func (t *Ticket) Assigned() bool {
	return t.AssigneeName != nil && *t.AssigneeName != ""
}
