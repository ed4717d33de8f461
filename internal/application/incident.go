package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/safelive/backend/internal/domain/incident"
	"github.com/safelive/backend/internal/domain/notification"
	"github.com/safelive/backend/internal/domain/ticket"
	"github.com/safelive/backend/internal/feed"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/internal/storage"
	"github.com/safelive/backend/pkg/apperr"
	"github.com/safelive/backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IncidentService is the intake path: it validates citizen submissions,
// persists the incident together with its derived ticket and fans out the
// side effects (department notifications, live feed).
type IncidentService struct {
	Repos    *repository.Repos
	Photos   storage.PhotoStore
	Hub      *feed.Hub
	Notifier *NotificationService
}

func NewIncidentService(repos *repository.Repos, photos storage.PhotoStore, hub *feed.Hub, notifier *NotificationService) *IncidentService {
	return &IncidentService{Repos: repos, Photos: photos, Hub: hub, Notifier: notifier}
}

// Submit validates and persists a citizen report. The derived ticket is
// created in the same transaction: an accepted incident never exists
// without one.
func (s *IncidentService) Submit(ctx context.Context, session Session, input incident.CreateInput) (incident.Incident, error) {
	if !session.IsCitizen() {
		return incident.Incident{}, fmt.Errorf("citizen role required: %w", apperr.ErrForbidden)
	}
	if err := validateSubmission(input); err != nil {
		return incident.Incident{}, err
	}

	urls, err := s.storePhotos(ctx, input.Images)
	if err != nil {
		return incident.Incident{}, err
	}

	inc := incident.Incident{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    incident.Category(input.Category),
		Location:    strings.TrimSpace(input.Location),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		ImageURLs:   datatypes.NewJSONSlice(urls),
		Severity:    severityOrDefault(input.Severity),
		Priority:    priorityOrDefault(input.Priority),
		Status:      incident.StatusOpen,
		Source:      "citizen",
		ReportedBy:  session.UserID,
	}

	if err := s.persistWithTicket(&inc); err != nil {
		return incident.Incident{}, err
	}

	s.afterIntake(inc)
	return inc, nil
}

// Report is the edge-device ingestion path (POST /report). Detections
// arrive pre-triaged: high priority, category "ai".
func (s *IncidentService) Report(ctx context.Context, input incident.ReportInput) (incident.Incident, error) {
	var urls []string
	if input.Image != "" {
		stored, err := s.storePhotos(ctx, []string{input.Image})
		if err != nil {
			return incident.Incident{}, err
		}
		urls = stored
	}

	location := "unknown"
	if input.Latitude != nil && input.Longitude != nil {
		location = fmt.Sprintf("%f, %f", *input.Latitude, *input.Longitude)
	}

	source := input.Source
	if source == "" {
		source = "edge"
	}

	inc := incident.Incident{
		Title:       "AI Detected Issue",
		Description: input.Description,
		Category:    incident.CategoryAI,
		Location:    location,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		ImageURLs:   datatypes.NewJSONSlice(urls),
		Severity:    severityOrDefault(input.Severity),
		Priority:    incident.PriorityHigh,
		Status:      incident.StatusOpen,
		Source:      source,
		DeviceID:    input.DeviceID,
	}

	if err := s.persistWithTicket(&inc); err != nil {
		return incident.Incident{}, err
	}

	s.afterIntake(inc)
	return inc, nil
}

// DeriveTicket creates the ticket bound 1:1 to inc. Idempotent: a second
// call for the same incident returns the existing ticket untouched.
func (s *IncidentService) DeriveTicket(inc *incident.Incident) (ticket.Ticket, error) {
	return deriveTicket(s.Repos, inc)
}

func deriveTicket(repos *repository.Repos, inc *incident.Incident) (ticket.Ticket, error) {
	t := ticket.Ticket{
		IncidentID: inc.ID,
		Title:      inc.Title,
		Category:   inc.Category,
		Location:   inc.Location,
		Department: ticket.DepartmentFor(inc.Category),
		Priority:   inc.Priority,
		Status:     ticket.StatusOpen,
	}
	err := repos.Ticket.CreateTicket(&t)
	if err == nil {
		return t, nil
	}
	// Derivation is keyed on the incident_id unique index: losing the
	// race just means the ticket already exists.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repos.Ticket.GetTicketByIncidentID(inc.ID)
	}
	return ticket.Ticket{}, err
}

func (s *IncidentService) persistWithTicket(inc *incident.Incident) error {
	return s.Repos.ExecTx(func(tx *repository.Repos) error {
		if err := tx.Incident.CreateIncident(inc); err != nil {
			return err
		}
		_, err := deriveTicket(tx, inc)
		return err
	})
}

// afterIntake runs the best-effort side effects once the transaction has
// committed.
func (s *IncidentService) afterIntake(inc incident.Incident) {
	department := ticket.DepartmentFor(inc.Category)
	officials, err := s.Repos.User.ListOfficialsByDepartment(string(department))
	if err != nil {
		logger.WithComponent("intake").WithError(err).
			Warn("could not list department officials for notification")
	}
	incidentID := inc.ID
	for _, official := range officials {
		s.Notifier.Emit(official.ID, notification.TypeIncidentCreated,
			"New incident reported",
			fmt.Sprintf("%s (%s) reported at %s", inc.Title, inc.Category, inc.Location),
			&incidentID, nil)
	}

	s.Hub.Publish(feed.Event{Type: feed.EventNewIncident, Data: inc})
}

// List returns incidents newest-first, scoped to the caller: citizens see
// only their own reports.
func (s *IncidentService) List(session Session) ([]incident.Incident, error) {
	if session.IsOfficial() {
		return s.Repos.Incident.ListIncidents(nil)
	}
	reporterID := session.UserID
	return s.Repos.Incident.ListIncidents(&reporterID)
}

func (s *IncidentService) Get(session Session, id uint) (incident.Incident, error) {
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

func (s *IncidentService) Stats(session Session) (incident.Stats, error) {
	var reporterID *uint
	if !session.IsOfficial() {
		id := session.UserID
		reporterID = &id
	}

	var stats incident.Stats
	var err error
	if stats.Total, err = s.Repos.Incident.CountIncidents(reporterID); err != nil {
		return stats, err
	}
	if stats.Open, err = s.Repos.Incident.CountIncidentsByStatus(incident.StatusOpen, reporterID); err != nil {
		return stats, err
	}
	if stats.InProgress, err = s.Repos.Incident.CountIncidentsByStatus(incident.StatusInProgress, reporterID); err != nil {
		return stats, err
	}
	if stats.Resolved, err = s.Repos.Incident.CountIncidentsByStatus(incident.StatusResolved, reporterID); err != nil {
		return stats, err
	}
	stats.Pending = stats.Open
	return stats, nil
}

// Update is the official-side edit; changed fields are mirrored onto the
// ticket so lists stay consistent. Workflow status is not editable here,
// that belongs to the ticket engine.
func (s *IncidentService) Update(session Session, id uint, input incident.UpdateInput) (incident.Incident, error) {
	if !session.IsOfficial() {
		return incident.Incident{}, apperr.ErrForbidden
	}

	inc, err := s.Repos.Incident.GetIncidentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return incident.Incident{}, apperr.ErrNotFound
		}
		return incident.Incident{}, err
	}

	mirror := map[string]any{}
	if input.Title != nil {
		inc.Title = *input.Title
		mirror["title"] = *input.Title
	}
	if input.Description != nil {
		inc.Description = *input.Description
	}
	if input.Category != nil {
		cat := incident.Category(*input.Category)
		if !incident.ValidCategory(cat) {
			return incident.Incident{}, apperr.NewValidation().Add("category", "unknown category")
		}
		inc.Category = cat
		mirror["category"] = cat
		mirror["department"] = ticket.DepartmentFor(cat)
	}
	if input.Priority != nil {
		inc.Priority = incident.Priority(*input.Priority)
		mirror["priority"] = inc.Priority
	}
	if input.Severity != nil {
		inc.Severity = incident.Severity(*input.Severity)
	}
	if input.Location != nil {
		inc.Location = *input.Location
		mirror["location"] = *input.Location
	}
	if input.Latitude != nil {
		inc.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		inc.Longitude = input.Longitude
	}

	err = s.Repos.ExecTx(func(tx *repository.Repos) error {
		if err := tx.Incident.SaveIncident(&inc); err != nil {
			return err
		}
		if len(mirror) == 0 {
			return nil
		}
		return tx.Ticket.UpdateTicketByIncidentID(inc.ID, mirror)
	})
	if err != nil {
		return incident.Incident{}, err
	}
	return inc, nil
}

// Delete removes an incident and everything hanging off it.
func (s *IncidentService) Delete(session Session, id uint) error {
	if !session.IsOfficial() {
		return apperr.ErrForbidden
	}
	if _, err := s.Repos.Incident.GetIncidentByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.Repos.ExecTx(func(tx *repository.Repos) error {
		if err := tx.Ticket.DeleteTicketByIncidentID(id); err != nil {
			return err
		}
		if err := tx.Notification.DeleteNotificationsByIncidentID(id); err != nil {
			return err
		}
		if err := tx.Message.DeleteMessagesByIncidentID(id); err != nil {
			return err
		}
		return tx.Incident.DeleteIncident(id)
	})
}

func (s *IncidentService) storePhotos(ctx context.Context, images []string) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img == "" {
			continue
		}
		url, err := s.Photos.StorePhoto(ctx, img)
		if err != nil {
			return nil, apperr.NewValidation().Add("images", "invalid image data")
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func validateSubmission(input incident.CreateInput) error {
	verr := apperr.NewValidation()

	if len(strings.TrimSpace(input.Title)) < 10 {
		verr.Add("title", "title must be at least 10 characters")
	}
	if len(strings.TrimSpace(input.Description)) < 20 {
		verr.Add("description", "description must be at least 20 characters")
	}

	cat := incident.Category(input.Category)
	if !incident.ValidCategory(cat) || cat == incident.CategoryAI {
		verr.Add("category", "category must be one of garbage, pothole, streetlight, water, security")
	}
	if strings.TrimSpace(input.Location) == "" {
		verr.Add("location", "address is required")
	}
	if !pincodePattern.MatchString(input.Pincode) {
		verr.Add("pincode", "pincode must be 6 digits")
	}
	if len(input.Images) == 0 {
		verr.Add("images", "at least one photo is required")
	}

	// Geolocation must be resolved or explicitly absent; half a
	// coordinate pair is always a client bug.
	switch {
	case input.NoLocation && (input.Latitude != nil || input.Longitude != nil):
		verr.Add("latitude", "coordinates given but location marked absent")
	case !input.NoLocation && (input.Latitude == nil) != (input.Longitude == nil):
		verr.Add("latitude", "latitude and longitude must both be set")
	case !input.NoLocation && input.Latitude == nil && input.Longitude == nil:
		verr.Add("latitude", "provide coordinates or mark location as unavailable")
	}

	if input.Severity != "" {
		switch incident.Severity(input.Severity) {
		case incident.SeverityLow, incident.SeverityMedium, incident.SeverityHigh:
		default:
			verr.Add("severity", "severity must be low, medium or high")
		}
	}
	if input.Priority != "" {
		switch incident.Priority(input.Priority) {
		case incident.PriorityLow, incident.PriorityMedium, incident.PriorityHigh, incident.PriorityCritical:
		default:
			verr.Add("priority", "priority must be low, medium, high or critical")
		}
	}

	return verr.OrNil()
}

func severityOrDefault(raw string) incident.Severity {
	if raw == "" {
		return incident.SeverityMedium
	}
	return incident.Severity(raw)
}

func priorityOrDefault(raw string) incident.Priority {
	if raw == "" {
		return incident.PriorityMedium
	}
	return incident.Priority(raw)
}
