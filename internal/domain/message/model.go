package message

import "time"

// Message is one entry in the per-incident conversation thread between
// the reporter and the officials working the ticket.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	IncidentID uint      `gorm:"not null;index" json:"incidentId"`
	SenderID   uint      `gorm:"not null" json:"senderId"`
	Sender     string    `gorm:"size:100;not null" json:"sender"`
	Body       string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}

type CreateInput struct {
	Message string `json:"message" binding:"required,max=2000"`
}
