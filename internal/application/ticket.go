package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/safelive/backend/internal/domain/notification"
	"github.com/safelive/backend/internal/domain/ticket"
	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/internal/feed"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/internal/storage"
	"github.com/safelive/backend/pkg/apperr"
	"github.com/safelive/backend/pkg/logger"
	"gorm.io/gorm"
)

// TicketService is the assignment and status engine. Every transition is
// validated against the role-gated transition rules and persisted
// atomically together with the incident status mirror; concurrent writers
// on the same ticket are serialized by the version compare-and-swap.
type TicketService struct {
	Repos    *repository.Repos
	Photos   storage.PhotoStore
	Hub      *feed.Hub
	Notifier *NotificationService
}

func NewTicketService(repos *repository.Repos, photos storage.PhotoStore, hub *feed.Hub, notifier *NotificationService) *TicketService {
	return &TicketService{Repos: repos, Photos: photos, Hub: hub, Notifier: notifier}
}

var statusRank = map[ticket.Status]int{
	ticket.StatusOpen:       0,
	ticket.StatusInProgress: 1,
	ticket.StatusVerified:   2,
	ticket.StatusResolved:   3,
}

// canTransition is the single authorization predicate for workflow moves.
// Officials advance tickets monotonically; only a head supervisor may
// take a resolved ticket back to open.
func canTransition(role user.UserType, from, to ticket.Status) bool {
	if !role.IsOfficial() {
		return false
	}
	if from == ticket.StatusResolved && to == ticket.StatusOpen {
		return role.CanReopen()
	}
	return statusRank[to] >= statusRank[from]
}

func (s *TicketService) Get(session Session, id uint) (ticket.Ticket, error) {
	if !session.IsOfficial() {
		return ticket.Ticket{}, apperr.ErrForbidden
	}
	return s.load(id)
}

func (s *TicketService) List(session Session, filter ticket.Filter) ([]ticket.Ticket, error) {
	if !session.IsOfficial() {
		return nil, apperr.ErrForbidden
	}
	return s.Repos.Ticket.ListTickets(filter)
}

// Assign puts a field worker on the ticket. Status is left untouched;
// reassignment overwrites the contact fields. The incident reporter gets
// a ticket_assigned notification.
func (s *TicketService) Assign(ctx context.Context, session Session, id uint, input ticket.AssignInput) (ticket.Ticket, error) {
	if !session.IsOfficial() {
		return ticket.Ticket{}, apperr.ErrForbidden
	}

	t, err := s.load(id)
	if err != nil {
		return ticket.Ticket{}, err
	}

	if t.Status != ticket.StatusOpen && t.Status != ticket.StatusInProgress {
		return ticket.Ticket{}, apperr.Precondition("cannot assign a %s ticket", t.Status)
	}

	name := strings.TrimSpace(input.Name())
	phone := strings.TrimSpace(input.AssigneePhone)

	verr := apperr.NewValidation()
	if name == "" {
		verr.Add("assigneeName", "assignee name is required")
	}
	if !phonePattern.MatchString(phone) {
		verr.Add("assigneePhone", "assignee phone must be 10-15 digits")
	}
	// Photo evidence is mandatory the first time someone is put on the
	// ticket; on reassignment the one on file may be kept.
	if input.AssigneePhoto == "" && t.AssigneePhotoURL == nil {
		verr.Add("assigneePhoto", "assignee photo is required")
	}
	if err := verr.OrNil(); err != nil {
		return ticket.Ticket{}, err
	}

	// Upload before the transaction so a storage failure cannot leave a
	// half-written assignment behind.
	photoURL := t.AssigneePhotoURL
	if input.AssigneePhoto != "" {
		url, err := s.Photos.StorePhoto(ctx, input.AssigneePhoto)
		if err != nil {
			return ticket.Ticket{}, apperr.NewValidation().Add("assigneePhoto", "invalid photo data")
		}
		photoURL = &url
	}

	t.AssigneeName = &name
	t.AssigneePhone = &phone
	t.AssigneePhotoURL = photoURL
	if input.Notes != nil {
		t.Notes = appendNote(t.Notes, *input.Notes)
	}

	if err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		return tx.Ticket.SaveTicketCAS(&t)
	}); err != nil {
		return ticket.Ticket{}, err
	}

	s.notifyReporter(t, notification.TypeTicketAssigned,
		"Your report is being worked on",
		fmt.Sprintf("%q has been assigned to %s.", t.Title, name))
	s.Hub.Publish(feed.Event{Type: feed.EventTicketUpdated, Data: t})
	return t, nil
}

// UpdateStatus advances the ticket through the workflow. The incident
// status mirror is written in the same transaction; both change or
// neither does.
func (s *TicketService) UpdateStatus(session Session, id uint, input ticket.UpdateStatusInput) (ticket.Ticket, error) {
	target := ticket.Status(input.Status)
	if !ticket.ValidStatus(target) {
		return ticket.Ticket{}, apperr.NewValidation().
			Add("status", "status must be one of open, in_progress, verified, resolved")
	}

	t, err := s.load(id)
	if err != nil {
		return ticket.Ticket{}, err
	}

	// Going back to open is only ever a supervisor reopen, which has its
	// own entry point and warning record.
	if target == ticket.StatusOpen && t.Status != ticket.StatusOpen {
		return ticket.Ticket{}, apperr.Precondition("a %s ticket cannot be set back to open; use reopen", t.Status)
	}

	if !canTransition(session.Role, t.Status, target) {
		if !session.IsOfficial() {
			return ticket.Ticket{}, apperr.ErrForbidden
		}
		return ticket.Ticket{}, apperr.Precondition("cannot move ticket from %s to %s", t.Status, target)
	}

	// Assignment precedes progress: nothing moves past open while the
	// ticket has no field worker.
	if target != ticket.StatusOpen && !t.Assigned() {
		return ticket.Ticket{}, apperr.Precondition("ticket has no assignee; assign personnel before changing status")
	}

	resolvedNow := target == ticket.StatusResolved && t.Status != ticket.StatusResolved
	t.Status = target
	if resolvedNow {
		now := time.Now().UTC()
		t.ResolvedAt = &now
	}
	if input.Notes != nil {
		t.Notes = appendNote(t.Notes, *input.Notes)
	}

	if err := s.persistWithMirror(&t); err != nil {
		return ticket.Ticket{}, err
	}

	if resolvedNow {
		s.notifyReporter(t, notification.TypeTicketResolved,
			"Your report has been resolved",
			fmt.Sprintf("%q has been marked resolved.", t.Title))
	}
	s.Hub.Publish(feed.Event{Type: feed.EventTicketUpdated, Data: t})
	return t, nil
}

// Reopen takes a resolved ticket back to open. Head supervisors only;
// the warning record stays on the ticket so the assigned official sees
// why on their next fetch.
func (s *TicketService) Reopen(session Session, id uint, input ticket.ReopenInput) (ticket.Ticket, error) {
	t, err := s.load(id)
	if err != nil {
		return ticket.Ticket{}, err
	}

	if t.Status != ticket.StatusResolved {
		return ticket.Ticket{}, apperr.Precondition("only resolved tickets can be reopened, ticket is %s", t.Status)
	}
	if !canTransition(session.Role, t.Status, ticket.StatusOpen) {
		return ticket.Ticket{}, apperr.ErrForbidden
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		message = fmt.Sprintf("Ticket reopened by head supervisor %s after review.", session.Name)
	}

	now := time.Now().UTC()
	t.Status = ticket.StatusOpen
	t.ReopenSupervisor = &session.Name
	t.ReopenMessage = &message
	t.ReopenAt = &now
	t.ResolvedAt = nil

	if err := s.persistWithMirror(&t); err != nil {
		return ticket.Ticket{}, err
	}

	logger.WithTicket(t.ID).Infof("ticket reopened by supervisor %s", session.Name)
	s.Hub.Publish(feed.Event{Type: feed.EventTicketUpdated, Data: t})
	return t, nil
}

func (s *TicketService) Stats(session Session) (ticket.Stats, error) {
	if !session.IsOfficial() {
		return ticket.Stats{}, apperr.ErrForbidden
	}

	var stats ticket.Stats
	var err error
	if stats.TotalTickets, err = s.Repos.Ticket.CountTickets(); err != nil {
		return stats, err
	}
	if stats.OpenTickets, err = s.Repos.Ticket.CountTicketsByStatus(ticket.StatusOpen); err != nil {
		return stats, err
	}
	inProgress, err := s.Repos.Ticket.CountTicketsByStatus(ticket.StatusInProgress)
	if err != nil {
		return stats, err
	}
	verified, err := s.Repos.Ticket.CountTicketsByStatus(ticket.StatusVerified)
	if err != nil {
		return stats, err
	}
	stats.InProgress = inProgress + verified

	if stats.ResolvedToday, err = s.Repos.Ticket.CountResolvedSince(time.Now().UTC().Add(-24 * time.Hour)); err != nil {
		return stats, err
	}

	resolved, err := s.Repos.Ticket.CountTicketsByStatus(ticket.StatusResolved)
	if err != nil {
		return stats, err
	}
	stats.AvgResponse = "N/A"
	if stats.TotalTickets > 0 {
		stats.ResolutionRate = roundRate(resolved, stats.TotalTickets)
	}
	return stats, nil
}

// load fetches a ticket, translating the store's not-found.
func (s *TicketService) load(id uint) (ticket.Ticket, error) {
	t, err := s.Repos.Ticket.GetTicketByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ticket.Ticket{}, apperr.ErrNotFound
		}
		return ticket.Ticket{}, err
	}
	return t, nil
}

// persistWithMirror writes the ticket (CAS) and the incident status
// projection as one unit.
func (s *TicketService) persistWithMirror(t *ticket.Ticket) error {
	return s.Repos.ExecTx(func(tx *repository.Repos) error {
		if err := tx.Ticket.SaveTicketCAS(t); err != nil {
			return err
		}
		return tx.Incident.UpdateIncidentStatus(t.IncidentID, t.Status.IncidentStatus())
	})
}

func (s *TicketService) notifyReporter(t ticket.Ticket, typ notification.Type, title, message string) {
	inc, err := s.Repos.Incident.GetIncidentByID(t.IncidentID)
	if err != nil {
		logger.WithTicket(t.ID).WithError(err).Warn("could not load incident for reporter notification")
		return
	}
	if inc.ReportedBy == 0 {
		// Edge-device detections have no reporter to notify.
		return
	}
	incidentID := inc.ID
	ticketID := t.ID
	s.Notifier.Emit(inc.ReportedBy, typ, title, message, &incidentID, &ticketID)
}

func appendNote(existing *string, note string) *string {
	note = strings.TrimSpace(note)
	if note == "" {
		return existing
	}
	if existing == nil || *existing == "" {
		return &note
	}
	combined := *existing + "\n" + note
	return &combined
}

func roundRate(part, total int64) float64 {
	return float64(int((float64(part)/float64(total))*100*100+0.5)) / 100
}
