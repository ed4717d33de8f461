package incident

import (
	"time"

	"gorm.io/datatypes"
)

type Category string

const (
	CategoryGarbage     Category = "garbage"
	CategoryPothole     Category = "pothole"
	CategoryStreetlight Category = "streetlight"
	CategoryWater       Category = "water"
	CategorySecurity    Category = "security"
	CategoryAI          Category = "ai"
)

func ValidCategory(c Category) bool {
	switch c {
	case CategoryGarbage, CategoryPothole, CategoryStreetlight, CategoryWater, CategorySecurity, CategoryAI:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Status is the citizen-visible state. The ticket-side "verified" waypoint
// is folded into in_progress here.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

type Incident struct {
	ID          uint                         `gorm:"primaryKey" json:"id"`
	Title       string                       `gorm:"size:200;not null" json:"title"`
	Description string                       `gorm:"type:text;not null" json:"description"`
	Category    Category                     `gorm:"size:20;not null;index" json:"category"`
	Location    string                       `gorm:"size:500;not null" json:"location"`
	Latitude    *float64                     `json:"latitude,omitempty"`
	Longitude   *float64                     `json:"longitude,omitempty"`
	ImageURLs   datatypes.JSONSlice[string]  `json:"imageUrls"`
	Severity    Severity                     `gorm:"size:10;not null;default:'medium';index" json:"severity"`
	Priority    Priority                     `gorm:"size:10;not null;default:'medium'" json:"priority"`
	Status      Status                       `gorm:"size:15;not null;default:'open';index" json:"status"`
	Source      string                       `gorm:"size:20;not null;default:'citizen'" json:"source"`
	HasMessages bool                         `gorm:"not null;default:false" json:"hasMessages"`
	DeviceID    *string                      `gorm:"size:100" json:"deviceId,omitempty"`
	ReportedBy  uint                         `gorm:"not null;index" json:"reportedBy"`
	CreatedAt   time.Time                    `gorm:"index:idx_incidents_created_at,sort:desc" json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
}

func (Incident) TableName() string {
	return "incidents"
}
