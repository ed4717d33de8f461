package application

import (
	"github.com/safelive/backend/internal/feed"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/internal/storage"
)

type Services struct {
	Auth         *AuthService
	User         *UserService
	Incident     *IncidentService
	Ticket       *TicketService
	Message      *MessageService
	Notification *NotificationService
	Analytics    *AnalyticsService
	Hub          *feed.Hub
}

func New(repos *repository.Repos, photos storage.PhotoStore, hub *feed.Hub) *Services {
	notifier := NewNotificationService(repos)
	return &Services{
		Auth:         NewAuthService(repos),
		User:         NewUserService(repos),
		Incident:     NewIncidentService(repos, photos, hub, notifier),
		Ticket:       NewTicketService(repos, photos, hub, notifier),
		Message:      NewMessageService(repos),
		Notification: notifier,
		Analytics:    NewAnalyticsService(repos),
		Hub:          hub,
	}
}
