package repository

import (
	"github.com/safelive/backend/internal/domain/notification"
	"gorm.io/gorm"
)

type NotificationRepo interface {
	CreateNotification(n *notification.Notification) error
	ListNotificationsByUser(userID uint, limit int) ([]notification.Notification, error)
	GetNotificationByID(id uint) (notification.Notification, error)
	MarkNotificationRead(id uint) error
	DeleteNotificationsByIncidentID(incidentID uint) error
	WithTx(tx *gorm.DB) NotificationRepo
}

type DBNotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *DBNotificationRepo {
	return &DBNotificationRepo{db: db}
}

func (r *DBNotificationRepo) CreateNotification(n *notification.Notification) error {
	return r.db.Create(n).Error
}

func (r *DBNotificationRepo) ListNotificationsByUser(userID uint, limit int) ([]notification.Notification, error) {
	var items []notification.Notification
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&items).Error
	return items, err
}

func (r *DBNotificationRepo) GetNotificationByID(id uint) (notification.Notification, error) {
	var n notification.Notification
	err := r.db.First(&n, id).Error
	return n, err
}

func (r *DBNotificationRepo) MarkNotificationRead(id uint) error {
	return r.db.Model(&notification.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

func (r *DBNotificationRepo) DeleteNotificationsByIncidentID(incidentID uint) error {
	return r.db.Where("incident_id = ?", incidentID).Delete(&notification.Notification{}).Error
}

func (r *DBNotificationRepo) WithTx(tx *gorm.DB) NotificationRepo {
	if tx == nil {
		return r
	}
	return &DBNotificationRepo{db: tx}
}
