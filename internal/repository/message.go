package repository

import (
	"github.com/safelive/backend/internal/domain/message"
	"gorm.io/gorm"
)

type MessageRepo interface {
	CreateMessage(m *message.Message) error
	ListMessagesByIncident(incidentID uint) ([]message.Message, error)
	DeleteMessagesByIncidentID(incidentID uint) error
	WithTx(tx *gorm.DB) MessageRepo
}

type DBMessageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *DBMessageRepo {
	return &DBMessageRepo{db: db}
}

func (r *DBMessageRepo) CreateMessage(m *message.Message) error {
	return r.db.Create(m).Error
}

func (r *DBMessageRepo) ListMessagesByIncident(incidentID uint) ([]message.Message, error) {
	var items []message.Message
	err := r.db.Where("incident_id = ?", incidentID).Order("created_at ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *DBMessageRepo) DeleteMessagesByIncidentID(incidentID uint) error {
	return r.db.Where("incident_id = ?", incidentID).Delete(&message.Message{}).Error
}

func (r *DBMessageRepo) WithTx(tx *gorm.DB) MessageRepo {
	if tx == nil {
		return r
	}
	return &DBMessageRepo{db: tx}
}
