package application

import (
	"time"

	"github.com/safelive/backend/internal/domain/incident"
	"github.com/safelive/backend/internal/domain/ticket"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/pkg/apperr"
)

// AnalyticsService derives dashboards from the current incident/ticket
// collections. Every call re-scans state; reads are snapshot-consistent
// per query but deliberately not linearized with in-flight transitions.
type AnalyticsService struct {
	Repos *repository.Repos
}

func NewAnalyticsService(repos *repository.Repos) *AnalyticsService {
	return &AnalyticsService{Repos: repos}
}

type StatusCounts struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
}

type WorkerProductivity struct {
	Worker         string  `json:"worker"`
	Total          int64   `json:"total"`
	Resolved       int64   `json:"resolved"`
	Open           int64   `json:"open"`
	InProgress     int64   `json:"inProgress"`
	ResolutionRate float64 `json:"resolutionRate"`
}

type Dashboard struct {
	Incidents            StatusCounts               `json:"incidents"`
	Tickets              StatusCounts               `json:"tickets"`
	CityCleanlinessScore float64                    `json:"cityCleanlinessScore"`
	SafetyIndex          float64                    `json:"safetyIndex"`
	ByCategory           []repository.CategoryCount `json:"byCategory"`
	WorkerProductivity   []WorkerProductivity       `json:"workerProductivity"`
}

type TrendPoint struct {
	Date     string `json:"date"`
	Created  int64  `json:"created"`
	Resolved int64  `json:"resolved"`
}

type HeatmapPoint struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Weight   float64 `json:"weight"`
	Category string  `json:"category"`
	Status   string  `json:"status"`
}

const (
	trendsMinDays     = 7
	trendsMaxDays     = 60
	trendsDefaultDays = 14
)

func (s *AnalyticsService) Dashboard(session Session) (Dashboard, error) {
	if !session.IsOfficial() {
		return Dashboard{}, apperr.ErrForbidden
	}

	var dash Dashboard
	var err error

	if dash.Incidents, err = s.incidentCounts(); err != nil {
		return dash, err
	}
	if dash.Tickets, err = s.ticketCounts(); err != nil {
		return dash, err
	}
	if dash.ByCategory, err = s.Repos.Incident.CategoryHistogram(); err != nil {
		return dash, err
	}

	workers, err := s.Repos.Ticket.WorkerRows()
	if err != nil {
		return dash, err
	}
	dash.WorkerProductivity = make([]WorkerProductivity, 0, len(workers))
	for _, w := range workers {
		wp := WorkerProductivity{
			Worker:     w.Worker,
			Total:      w.Total,
			Resolved:   w.Resolved,
			Open:       w.Open,
			InProgress: w.InProgress,
		}
		if w.Total > 0 {
			wp.ResolutionRate = roundRate(w.Resolved, w.Total)
		}
		dash.WorkerProductivity = append(dash.WorkerProductivity, wp)
	}

	if dash.Incidents.Total > 0 {
		dash.CityCleanlinessScore = roundRate(dash.Incidents.Resolved, dash.Incidents.Total)
	}

	safetyCount, err := s.Repos.Incident.CountIncidentsByCategories([]incident.Category{incident.CategorySecurity, incident.CategoryAI})
	if err != nil {
		return dash, err
	}
	dash.SafetyIndex = 100 - float64(safetyCount)*3
	if dash.SafetyIndex < 0 {
		dash.SafetyIndex = 0
	}

	return dash, nil
}

// Trends returns one point per UTC calendar day for the last `days` days
// (today inclusive), zero-filled. Days is clamped to [7, 60].
func (s *AnalyticsService) Trends(session Session, days int) ([]TrendPoint, error) {
	if !session.IsOfficial() {
		return nil, apperr.ErrForbidden
	}

	if days == 0 {
		days = trendsDefaultDays
	}
	if days < trendsMinDays {
		days = trendsMinDays
	}
	if days > trendsMaxDays {
		days = trendsMaxDays
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))

	points := make([]TrendPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		points[i] = TrendPoint{Date: key}
		index[key] = i
	}

	rows, err := s.Repos.Incident.TrendRows(start)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if i, ok := index[row.CreatedAt.UTC().Format("2006-01-02")]; ok {
			points[i].Created++
		}
	}

	resolved, err := s.Repos.Ticket.ResolvedAtRows(start)
	if err != nil {
		return nil, err
	}
	for _, stamp := range resolved {
		if i, ok := index[stamp.UTC().Format("2006-01-02")]; ok {
			points[i].Resolved++
		}
	}

	return points, nil
}

// Heatmap returns one weighted point per geolocated incident. Weight
// scales with priority and decays once the incident is resolved.
func (s *AnalyticsService) Heatmap(session Session) ([]HeatmapPoint, error) {
	if !session.IsOfficial() {
		return nil, apperr.ErrForbidden
	}

	rows, err := s.Repos.Incident.HeatRows()
	if err != nil {
		return nil, err
	}

	points := make([]HeatmapPoint, 0, len(rows))
	for _, row := range rows {
		weight := priorityWeight(row.Priority)
		if row.Status == incident.StatusResolved {
			weight -= 0.6
			if weight < 0.2 {
				weight = 0.2
			}
		}
		points = append(points, HeatmapPoint{
			Lat:      row.Lat,
			Lng:      row.Lng,
			Weight:   weight,
			Category: string(row.Category),
			Status:   string(row.Status),
		})
	}
	return points, nil
}

func priorityWeight(p incident.Priority) float64 {
	switch p {
	case incident.PriorityLow:
		return 0.5
	case incident.PriorityHigh:
		return 1.5
	case incident.PriorityCritical:
		return 2.0
	default:
		return 1.0
	}
}

func (s *AnalyticsService) incidentCounts() (StatusCounts, error) {
	var counts StatusCounts
	var err error
	if counts.Total, err = s.Repos.Incident.CountIncidents(nil); err != nil {
		return counts, err
	}
	if counts.Open, err = s.Repos.Incident.CountIncidentsByStatus(incident.StatusOpen, nil); err != nil {
		return counts, err
	}
	if counts.InProgress, err = s.Repos.Incident.CountIncidentsByStatus(incident.StatusInProgress, nil); err != nil {
		return counts, err
	}
	counts.Resolved, err = s.Repos.Incident.CountIncidentsByStatus(incident.StatusResolved, nil)
	return counts, err
}

func (s *AnalyticsService) ticketCounts() (StatusCounts, error) {
	var counts StatusCounts
	var err error
	if counts.Total, err = s.Repos.Ticket.CountTickets(); err != nil {
		return counts, err
	}
	if counts.Open, err = s.Repos.Ticket.CountTicketsByStatus(ticket.StatusOpen); err != nil {
		return counts, err
	}
	inProgress, err := s.Repos.Ticket.CountTicketsByStatus(ticket.StatusInProgress)
	if err != nil {
		return counts, err
	}
	verified, err := s.Repos.Ticket.CountTicketsByStatus(ticket.StatusVerified)
	if err != nil {
		return counts, err
	}
	counts.InProgress = inProgress + verified
	counts.Resolved, err = s.Repos.Ticket.CountTicketsByStatus(ticket.StatusResolved)
	return counts, err
}

// PublicSummary backs the unauthenticated landing page: aggregate counts
// plus the most recent reports.
type PublicSummary struct {
	Total          int64             `json:"total"`
	Open           int64             `json:"open"`
	InProgress     int64             `json:"inProgress"`
	Resolved       int64             `json:"resolved"`
	ResolutionRate float64           `json:"resolutionRate"`
	Recent         []RecentIncident  `json:"recent"`
}

type RecentIncident struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Status    string `json:"status"`
	Location  string `json:"location"`
	CreatedAt string `json:"createdAt"`
}

const recentSummaryLimit = 3

func (s *AnalyticsService) Summary() (PublicSummary, error) {
	counts, err := s.incidentCounts()
	if err != nil {
		return PublicSummary{}, err
	}

	summary := PublicSummary{
		Total:      counts.Total,
		Open:       counts.Open,
		InProgress: counts.InProgress,
		Resolved:   counts.Resolved,
	}
	if counts.Total > 0 {
		summary.ResolutionRate = roundRate(counts.Resolved, counts.Total)
	}

	recent, err := s.Repos.Incident.RecentIncidents(recentSummaryLimit)
	if err != nil {
		return PublicSummary{}, err
	}
	summary.Recent = make([]RecentIncident, 0, len(recent))
	for _, inc := range recent {
		summary.Recent = append(summary.Recent, RecentIncident{
			ID:        inc.ID,
			Title:     inc.Title,
			Category:  string(inc.Category),
			Status:    string(inc.Status),
			Location:  inc.Location,
			CreatedAt: inc.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return summary, nil
}
