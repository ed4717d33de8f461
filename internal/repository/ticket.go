package repository

import (
	"time"

	"github.com/safelive/backend/internal/domain/ticket"
	"github.com/safelive/backend/pkg/apperr"
	"gorm.io/gorm"
)

// WorkerRow aggregates per-assignee ticket counts for the productivity
// dashboard.
type WorkerRow struct {
	Worker     string `json:"worker"`
	Total      int64  `json:"total"`
	Resolved   int64  `json:"resolved"`
	Open       int64  `json:"open"`
	InProgress int64  `json:"inProgress"`
}

type TicketRepo interface {
	CreateTicket(t *ticket.Ticket) error
	GetTicketByID(id uint) (ticket.Ticket, error)
	GetTicketByIncidentID(incidentID uint) (ticket.Ticket, error)
	ListTickets(filter ticket.Filter) ([]ticket.Ticket, error)
	// SaveTicketCAS persists t only if no concurrent writer bumped the
	// version since t was loaded; a miss returns apperr.ErrConflict.
	SaveTicketCAS(t *ticket.Ticket) error
	UpdateTicketByIncidentID(incidentID uint, fields map[string]any) error
	DeleteTicketByIncidentID(incidentID uint) error

	CountTickets() (int64, error)
	CountTicketsByStatus(status ticket.Status) (int64, error)
	CountResolvedSince(since time.Time) (int64, error)
	WorkerRows() ([]WorkerRow, error)
	ResolvedAtRows(since time.Time) ([]time.Time, error)

	WithTx(tx *gorm.DB) TicketRepo
}

type DBTicketRepo struct {
	db *gorm.DB
}

func NewTicketRepo(db *gorm.DB) *DBTicketRepo {
	return &DBTicketRepo{db: db}
}

func (r *DBTicketRepo) CreateTicket(t *ticket.Ticket) error {
	return r.db.Create(t).Error
}

func (r *DBTicketRepo) GetTicketByID(id uint) (ticket.Ticket, error) {
	var t ticket.Ticket
	err := r.db.First(&t, id).Error
	return t, err
}

func (r *DBTicketRepo) GetTicketByIncidentID(incidentID uint) (ticket.Ticket, error) {
	var t ticket.Ticket
	err := r.db.Where("incident_id = ?", incidentID).First(&t).Error
	return t, err
}

func (r *DBTicketRepo) ListTickets(filter ticket.Filter) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	query := r.db.Model(&ticket.Ticket{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	err := query.Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

func (r *DBTicketRepo) SaveTicketCAS(t *ticket.Ticket) error {
	prev := t.Version
	t.Version = prev + 1
	res := r.db.Model(&ticket.Ticket{}).
		Where("id = ? AND version = ?", t.ID, prev).
		Select("*").
		Omit("id", "incident_id", "created_at").
		Updates(t)
	if res.Error != nil {
		t.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		t.Version = prev
		return apperr.ErrConflict
	}
	return nil
}

func (r *DBTicketRepo) UpdateTicketByIncidentID(incidentID uint, fields map[string]any) error {
	return r.db.Model(&ticket.Ticket{}).
		Where("incident_id = ?", incidentID).
		Updates(fields).Error
}

func (r *DBTicketRepo) DeleteTicketByIncidentID(incidentID uint) error {
	return r.db.Where("incident_id = ?", incidentID).Delete(&ticket.Ticket{}).Error
}

func (r *DBTicketRepo) CountTickets() (int64, error) {
	var count int64
	err := r.db.Model(&ticket.Ticket{}).Count(&count).Error
	return count, err
}

func (r *DBTicketRepo) CountTicketsByStatus(status ticket.Status) (int64, error) {
	var count int64
	err := r.db.Model(&ticket.Ticket{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *DBTicketRepo) CountResolvedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&ticket.Ticket{}).
		Where("status = ? AND resolved_at >= ?", ticket.StatusResolved, since).
		Count(&count).Error
	return count, err
}

func (r *DBTicketRepo) WorkerRows() ([]WorkerRow, error) {
	var rows []WorkerRow
	err := r.db.Model(&ticket.Ticket{}).
		Select(`assignee_name AS worker,
			COUNT(*) AS total,
			SUM(CASE WHEN status = 'resolved' THEN 1 ELSE 0 END) AS resolved,
			SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END) AS open,
			SUM(CASE WHEN status IN ('in_progress', 'verified') THEN 1 ELSE 0 END) AS in_progress`).
		Where("assignee_name IS NOT NULL AND assignee_name <> ''").
		Group("assignee_name").
		Order("resolved DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *DBTicketRepo) ResolvedAtRows(since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.db.Model(&ticket.Ticket{}).
		Where("resolved_at IS NOT NULL AND resolved_at >= ?", since).
		Pluck("resolved_at", &stamps).Error
	return stamps, err
}

func (r *DBTicketRepo) WithTx(tx *gorm.DB) TicketRepo {
	if tx == nil {
		return r
	}
	return &DBTicketRepo{db: tx}
}
