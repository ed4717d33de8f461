package notification

import "time"

type Type string

const (
	TypeIncidentCreated Type = "incident_created"
	TypeIncidentUpdated Type = "incident_updated"
	TypeTicketAssigned  Type = "ticket_assigned"
	TypeTicketResolved  Type = "ticket_resolved"
	TypeSystem          Type = "system"
)

// Notification is a one-way read record for the in-app inbox. Only the
// owning user may flip Read.
type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	Type       Type      `gorm:"size:20;not null" json:"type"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IncidentID *uint     `json:"incidentId,omitempty"`
	TicketID   *uint     `json:"ticketId,omitempty"`
	Read       bool      `gorm:"not null;default:false;index" json:"read"`
	CreatedAt  time.Time `gorm:"index:idx_notifications_created_at,sort:desc" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
