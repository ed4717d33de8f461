package repository

import (
	"gorm.io/gorm"
)

type Repos struct {
	User         UserRepo
	Incident     IncidentRepo
	Ticket       TicketRepo
	Notification NotificationRepo
	Message      MessageRepo

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		User:         NewUserRepo(db),
		Incident:     NewIncidentRepo(db),
		Ticket:       NewTicketRepo(db),
		Notification: NewNotificationRepo(db),
		Message:      NewMessageRepo(db),
		db:           db,
	}
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		User:         r.User.WithTx(tx),
		Incident:     r.Incident.WithTx(tx),
		Ticket:       r.Ticket.WithTx(tx),
		Notification: r.Notification.WithTx(tx),
		Message:      r.Message.WithTx(tx),
		db:           tx,
	}
}

// ExecTx runs fn with every repo bound to a single transaction. The
// workflow engine relies on this for its all-or-nothing transitions.
func (r *Repos) ExecTx(fn func(*Repos) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
