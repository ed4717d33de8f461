package application

import (
	"errors"

	"github.com/safelive/backend/internal/domain/notification"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/pkg/apperr"
	"github.com/safelive/backend/pkg/logger"
	"gorm.io/gorm"
)

type NotificationService struct {
	Repos *repository.Repos
}

func NewNotificationService(repos *repository.Repos) *NotificationService {
	return &NotificationService{Repos: repos}
}

// Emit persists a notification best-effort. Failure is logged and
// swallowed: notifications must never roll back or fail the state
// transition that triggered them.
func (s *NotificationService) Emit(userID uint, typ notification.Type, title, message string, incidentID, ticketID *uint) {
	n := notification.Notification{
		UserID:     userID,
		Type:       typ,
		Title:      title,
		Message:    message,
		IncidentID: incidentID,
		TicketID:   ticketID,
	}
	if err := s.Repos.Notification.CreateNotification(&n); err != nil {
		logger.WithComponent("notifications").WithError(err).
			Warnf("failed to persist %s notification for user %d", typ, userID)
	}
}

func (s *NotificationService) ListForUser(session Session, limit int) ([]notification.Notification, error) {
	return s.Repos.Notification.ListNotificationsByUser(session.UserID, limit)
}

// MarkRead flips the read flag; only the owning user may do so.
func (s *NotificationService) MarkRead(session Session, id uint) error {
	n, err := s.Repos.Notification.GetNotificationByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	if n.UserID != session.UserID {
		return apperr.ErrForbidden
	}
	return s.Repos.Notification.MarkNotificationRead(id)
}
