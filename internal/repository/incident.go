package repository

import (
	"time"

	"github.com/safelive/backend/internal/domain/incident"
	"gorm.io/gorm"
)

// CategoryCount is one bucket of the category histogram.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// HeatRow is one geolocated incident; the analytics service turns
// priority/status into a map weight.
type HeatRow struct {
	Lat      float64
	Lng      float64
	Priority incident.Priority
	Category incident.Category
	Status   incident.Status
}

// TrendRow carries the fields the trends aggregation needs; scanning whole
// incidents would drag image payloads along for nothing.
type TrendRow struct {
	CreatedAt time.Time
}

type IncidentRepo interface {
	CreateIncident(inc *incident.Incident) error
	GetIncidentByID(id uint) (incident.Incident, error)
	// ListIncidents returns newest-first; reporterID scopes citizens to
	// their own reports, nil means all.
	ListIncidents(reporterID *uint) ([]incident.Incident, error)
	SaveIncident(inc *incident.Incident) error
	UpdateIncidentStatus(id uint, status incident.Status) error
	DeleteIncident(id uint) error

	CountIncidents(reporterID *uint) (int64, error)
	CountIncidentsByStatus(status incident.Status, reporterID *uint) (int64, error)
	CountIncidentsByCategories(categories []incident.Category) (int64, error)
	CategoryHistogram() ([]CategoryCount, error)
	HeatRows() ([]HeatRow, error)
	TrendRows(since time.Time) ([]TrendRow, error)
	RecentIncidents(limit int) ([]incident.Incident, error)

	WithTx(tx *gorm.DB) IncidentRepo
}

type DBIncidentRepo struct {
	db *gorm.DB
}

func NewIncidentRepo(db *gorm.DB) *DBIncidentRepo {
	return &DBIncidentRepo{db: db}
}

func (r *DBIncidentRepo) CreateIncident(inc *incident.Incident) error {
	return r.db.Create(inc).Error
}

func (r *DBIncidentRepo) GetIncidentByID(id uint) (incident.Incident, error) {
	var inc incident.Incident
	err := r.db.First(&inc, id).Error
	return inc, err
}

func (r *DBIncidentRepo) ListIncidents(reporterID *uint) ([]incident.Incident, error) {
	var incidents []incident.Incident
	query := r.db.Model(&incident.Incident{})
	if reporterID != nil {
		query = query.Where("reported_by = ?", *reporterID)
	}
	err := query.Order("created_at DESC").Find(&incidents).Error
	return incidents, err
}

func (r *DBIncidentRepo) SaveIncident(inc *incident.Incident) error {
	return r.db.Save(inc).Error
}

func (r *DBIncidentRepo) UpdateIncidentStatus(id uint, status incident.Status) error {
	return r.db.Model(&incident.Incident{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *DBIncidentRepo) DeleteIncident(id uint) error {
	return r.db.Delete(&incident.Incident{}, id).Error
}

func (r *DBIncidentRepo) CountIncidents(reporterID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&incident.Incident{})
	if reporterID != nil {
		query = query.Where("reported_by = ?", *reporterID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *DBIncidentRepo) CountIncidentsByStatus(status incident.Status, reporterID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&incident.Incident{}).Where("status = ?", status)
	if reporterID != nil {
		query = query.Where("reported_by = ?", *reporterID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *DBIncidentRepo) CountIncidentsByCategories(categories []incident.Category) (int64, error) {
	var count int64
	err := r.db.Model(&incident.Incident{}).
		Where("category IN ?", categories).
		Count(&count).Error
	return count, err
}

func (r *DBIncidentRepo) CategoryHistogram() ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.Model(&incident.Incident{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *DBIncidentRepo) HeatRows() ([]HeatRow, error) {
	var rows []HeatRow
	err := r.db.Model(&incident.Incident{}).
		Select("latitude AS lat, longitude AS lng, priority, category, status").
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Scan(&rows).Error
	return rows, err
}

func (r *DBIncidentRepo) TrendRows(since time.Time) ([]TrendRow, error) {
	var rows []TrendRow
	err := r.db.Model(&incident.Incident{}).
		Select("created_at").
		Where("created_at >= ?", since).
		Scan(&rows).Error
	return rows, err
}

func (r *DBIncidentRepo) RecentIncidents(limit int) ([]incident.Incident, error) {
	var incidents []incident.Incident
	err := r.db.Order("created_at DESC").Limit(limit).Find(&incidents).Error
	return incidents, err
}

func (r *DBIncidentRepo) WithTx(tx *gorm.DB) IncidentRepo {
	if tx == nil {
		return r
	}
	return &DBIncidentRepo{db: tx}
}
