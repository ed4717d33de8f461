package application

import (
	"errors"
	"strings"

	"github.com/safelive/backend/internal/domain/incident"
	"github.com/safelive/backend/internal/domain/message"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/pkg/apperr"
	"gorm.io/gorm"
)

// MessageService handles the per-incident thread between the reporter
// and officials. Officials see every thread, a citizen only their own.
type MessageService struct {
	Repos *repository.Repos
}

func NewMessageService(repos *repository.Repos) *MessageService {
	return &MessageService{Repos: repos}
}

func (s *MessageService) List(session Session, incidentID uint) ([]message.Message, error) {
	if _, err := s.accessibleIncident(session, incidentID); err != nil {
		return nil, err
	}
	return s.Repos.Message.ListMessagesByIncident(incidentID)
}

func (s *MessageService) Post(session Session, incidentID uint, input message.CreateInput) (message.Message, error) {
	body := strings.TrimSpace(input.Message)
	if body == "" {
		return message.Message{}, apperr.NewValidation().Add("message", "message is required")
	}

	inc, err := s.accessibleIncident(session, incidentID)
	if err != nil {
		return message.Message{}, err
	}

	msg := message.Message{
		IncidentID: inc.ID,
		SenderID:   session.UserID,
		Sender:     senderLabel(session),
		Body:       body,
	}
	err = s.Repos.ExecTx(func(tx *repository.Repos) error {
		if err := tx.Message.CreateMessage(&msg); err != nil {
			return err
		}
		if inc.HasMessages {
			return nil
		}
		inc.HasMessages = true
		return tx.Incident.SaveIncident(&inc)
	})
	if err != nil {
		return message.Message{}, err
	}
	return msg, nil
}

func (s *MessageService) accessibleIncident(session Session, id uint) (incident.Incident, error) {
	inc, err := s.Repos.Incident.GetIncidentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return incident.Incident{}, apperr.ErrNotFound
		}
		return incident.Incident{}, err
	}
	if !session.IsOfficial() && inc.ReportedBy != session.UserID {
		return incident.Incident{}, apperr.ErrForbidden
	}
	return inc, nil
}

func senderLabel(session Session) string {
	if session.Name != "" {
		return session.Name
	}
	if session.Email != nil {
		return *session.Email
	}
	if session.Phone != nil {
		return *session.Phone
	}
	return "unknown"
}
