package application

import (
	"context"
	"errors"
	"testing"

	"github.com/safelive/backend/internal/domain/incident"
	"github.com/safelive/backend/internal/domain/notification"
	"github.com/safelive/backend/internal/domain/ticket"
	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/pkg/apperr"
	"github.com/stretchr/testify/assert"
)

var assignRavi = ticket.AssignInput{
	AssigneeName:  "Ravi Kumar",
	AssigneePhone: "9876543210",
	AssigneePhoto: "data:image/jpeg;base64,cGhvdG8=",
}

func seedTicket(t *testing.T, svc *Services, repos *repository.Repos) (incident.Incident, ticket.Ticket) {
	t.Helper()
	citizen := seedUser(t, repos, "asha", user.TypeCitizen, "")
	inc := submitIncident(t, svc, citizenSession(citizen.ID))
	tk, err := repos.Ticket.GetTicketByIncidentID(inc.ID)
	if err != nil {
		t.Fatalf("load derived ticket: %v", err)
	}
	return inc, tk
}

func assignedTicket(t *testing.T, svc *Services, repos *repository.Repos) (incident.Incident, ticket.Ticket) {
	t.Helper()
	inc, tk := seedTicket(t, svc, repos)
	assigned, err := svc.Ticket.Assign(context.Background(), officialSession(50, "Road"), tk.ID, assignRavi)
	if err != nil {
		t.Fatalf("assign ticket: %v", err)
	}
	return inc, assigned
}

func isPrecondition(err error) bool {
	var perr *apperr.PreconditionError
	return errors.As(err, &perr)
}

// --------------------- Assign ---------------------

func TestAssign_Success(t *testing.T) {
	svc, repos := setupServices(t)
	inc, tk := seedTicket(t, svc, repos)

	got, err := svc.Ticket.Assign(context.Background(), officialSession(50, "Road"), tk.ID, assignRavi)
	assert.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", *got.AssigneeName)
	assert.Equal(t, "9876543210", *got.AssigneePhone)
	assert.NotNil(t, got.AssigneePhotoURL)
	assert.Equal(t, ticket.StatusOpen, got.Status)

	notifs, err := repos.Notification.ListNotificationsByUser(inc.ReportedBy, 10)
	assert.NoError(t, err)
	if assert.Len(t, notifs, 1) {
		assert.Equal(t, notification.TypeTicketAssigned, notifs[0].Type)
		assert.Equal(t, tk.ID, *notifs[0].TicketID)
	}
}

func TestAssign_LegacyAssignedToField(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := seedTicket(t, svc, repos)

	input := assignRavi
	input.AssigneeName = ""
	input.AssignedTo = "Ravi Kumar"
	got, err := svc.Ticket.Assign(context.Background(), officialSession(50, "Road"), tk.ID, input)
	assert.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", *got.AssigneeName)
}

func TestAssign_RequiresNamePhoneAndPhoto(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := seedTicket(t, svc, repos)

	_, err := svc.Ticket.Assign(context.Background(), officialSession(50, "Road"), tk.ID, ticket.AssignInput{
		AssigneePhone: "12345",
	})
	fields := apperr.FieldsOf(err)
	assert.Contains(t, fields, "assigneeName")
	assert.Contains(t, fields, "assigneePhone")
	assert.Contains(t, fields, "assigneePhoto")
}

func TestAssign_ReassignmentKeepsPhotoOnFile(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := assignedTicket(t, svc, repos)

	got, err := svc.Ticket.Assign(context.Background(), officialSession(50, "Road"), tk.ID, ticket.AssignInput{
		AssigneeName:  "Suresh Babu",
		AssigneePhone: "9123456780",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Suresh Babu", *got.AssigneeName)
	assert.Equal(t, *tk.AssigneePhotoURL, *got.AssigneePhotoURL)
}

func TestAssign_CitizenForbidden(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := seedTicket(t, svc, repos)

	_, err := svc.Ticket.Assign(context.Background(), citizenSession(1), tk.ID, assignRavi)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestAssign_ResolvedTicketRejected(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := assignedTicket(t, svc, repos)
	official := officialSession(50, "Road")

	tk = mustUpdateStatus(t, svc, official, tk.ID, "in_progress")
	tk = mustUpdateStatus(t, svc, official, tk.ID, "resolved")

	_, err := svc.Ticket.Assign(context.Background(), official, tk.ID, assignRavi)
	assert.True(t, isPrecondition(err))
}

// --------------------- UpdateStatus ---------------------

func mustUpdateStatus(t *testing.T, svc *Services, session Session, id uint, status string) ticket.Ticket {
	t.Helper()
	tk, err := svc.Ticket.UpdateStatus(session, id, ticket.UpdateStatusInput{Status: status})
	if err != nil {
		t.Fatalf("update status to %s: %v", status, err)
	}
	return tk
}

func TestUpdateStatus_RequiresAssignee(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := seedTicket(t, svc, repos)

	_, err := svc.Ticket.UpdateStatus(officialSession(50, "Road"), tk.ID, ticket.UpdateStatusInput{Status: "in_progress"})
	assert.True(t, isPrecondition(err))
}

func TestUpdateStatus_AdvancesAndMirrorsIncident(t *testing.T) {
	svc, repos := setupServices(t)
	inc, tk := assignedTicket(t, svc, repos)
	official := officialSession(50, "Road")

	tk = mustUpdateStatus(t, svc, official, tk.ID, "in_progress")
	assert.Equal(t, ticket.StatusInProgress, tk.Status)
	mirrored, _ := repos.Incident.GetIncidentByID(inc.ID)
	assert.Equal(t, incident.StatusInProgress, mirrored.Status)

	// The internal verified waypoint is not surfaced to the reporter.
	tk = mustUpdateStatus(t, svc, official, tk.ID, "verified")
	mirrored, _ = repos.Incident.GetIncidentByID(inc.ID)
	assert.Equal(t, incident.StatusInProgress, mirrored.Status)

	tk = mustUpdateStatus(t, svc, official, tk.ID, "resolved")
	assert.NotNil(t, tk.ResolvedAt)
	mirrored, _ = repos.Incident.GetIncidentByID(inc.ID)
	assert.Equal(t, incident.StatusResolved, mirrored.Status)

	notifs, err := repos.Notification.ListNotificationsByUser(inc.ReportedBy, 10)
	assert.NoError(t, err)
	var resolvedSeen bool
	for _, n := range notifs {
		if n.Type == notification.TypeTicketResolved {
			resolvedSeen = true
		}
	}
	assert.True(t, resolvedSeen)
}

func TestUpdateStatus_NoBackwardMoves(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := assignedTicket(t, svc, repos)
	official := officialSession(50, "Road")

	tk = mustUpdateStatus(t, svc, official, tk.ID, "verified")

	_, err := svc.Ticket.UpdateStatus(official, tk.ID, ticket.UpdateStatusInput{Status: "in_progress"})
	assert.True(t, isPrecondition(err))
}

func TestUpdateStatus_OpenTargetRequiresReopen(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := assignedTicket(t, svc, repos)
	official := officialSession(50, "Road")

	tk = mustUpdateStatus(t, svc, official, tk.ID, "in_progress")
	tk = mustUpdateStatus(t, svc, official, tk.ID, "resolved")

	// Even a head supervisor must use the reopen flow, which records the
	// warning for the assigned official.
	_, err := svc.Ticket.UpdateStatus(supervisorSession(60), tk.ID, ticket.UpdateStatusInput{Status: "open"})
	assert.True(t, isPrecondition(err))
}

func TestUpdateStatus_InvalidValueRejected(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := assignedTicket(t, svc, repos)

	_, err := svc.Ticket.UpdateStatus(officialSession(50, "Road"), tk.ID, ticket.UpdateStatusInput{Status: "closed"})
	assert.Contains(t, apperr.FieldsOf(err), "status")
}

func TestUpdateStatus_CitizenForbidden(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := assignedTicket(t, svc, repos)

	_, err := svc.Ticket.UpdateStatus(citizenSession(1), tk.ID, ticket.UpdateStatusInput{Status: "in_progress"})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
}

// --------------------- Reopen ---------------------

func TestReopen_HeadSupervisorOnly(t *testing.T) {
	svc, repos := setupServices(t)
	inc, tk := assignedTicket(t, svc, repos)
	official := officialSession(50, "Road")

	tk = mustUpdateStatus(t, svc, official, tk.ID, "in_progress")
	tk = mustUpdateStatus(t, svc, official, tk.ID, "resolved")

	_, err := svc.Ticket.Reopen(official, tk.ID, ticket.ReopenInput{Message: "not fixed"})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	// A rejected reopen leaves the ticket untouched.
	unchanged, err := repos.Ticket.GetTicketByID(tk.ID)
	assert.NoError(t, err)
	assert.Equal(t, ticket.StatusResolved, unchanged.Status)

	reopened, err := svc.Ticket.Reopen(supervisorSession(60), tk.ID, ticket.ReopenInput{Message: "pothole still visible on site"})
	assert.NoError(t, err)
	assert.Equal(t, ticket.StatusOpen, reopened.Status)
	assert.Equal(t, "Supervisor Mehta", *reopened.ReopenSupervisor)
	assert.Equal(t, "pothole still visible on site", *reopened.ReopenMessage)
	assert.NotNil(t, reopened.ReopenAt)
	assert.Nil(t, reopened.ResolvedAt)

	mirrored, _ := repos.Incident.GetIncidentByID(inc.ID)
	assert.Equal(t, incident.StatusOpen, mirrored.Status)
}

func TestReopen_OnlyResolvedTickets(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := seedTicket(t, svc, repos)

	_, err := svc.Ticket.Reopen(supervisorSession(60), tk.ID, ticket.ReopenInput{})
	assert.True(t, isPrecondition(err))
}

func TestReopen_DefaultMessage(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := assignedTicket(t, svc, repos)
	official := officialSession(50, "Road")

	tk = mustUpdateStatus(t, svc, official, tk.ID, "resolved")

	reopened, err := svc.Ticket.Reopen(supervisorSession(60), tk.ID, ticket.ReopenInput{})
	assert.NoError(t, err)
	assert.Contains(t, *reopened.ReopenMessage, "Supervisor Mehta")
}

// --------------------- Concurrency ---------------------

func TestSaveTicketCAS_ConflictOnStaleVersion(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := seedTicket(t, svc, repos)

	first, err := repos.Ticket.GetTicketByID(tk.ID)
	assert.NoError(t, err)
	second, err := repos.Ticket.GetTicketByID(tk.ID)
	assert.NoError(t, err)

	first.Notes = ptrString("inspected")
	assert.NoError(t, repos.Ticket.SaveTicketCAS(&first))

	second.Notes = ptrString("duplicate edit")
	err = repos.Ticket.SaveTicketCAS(&second)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

// --------------------- Get / List / Stats ---------------------

func TestTicketAccess_OfficialsOnly(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := seedTicket(t, svc, repos)

	_, err := svc.Ticket.Get(citizenSession(1), tk.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	_, err = svc.Ticket.List(citizenSession(1), ticket.Filter{})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	_, err = svc.Ticket.Stats(citizenSession(1))
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestTicketList_Filtered(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := assignedTicket(t, svc, repos)
	official := officialSession(50, "Road")

	mustUpdateStatus(t, svc, official, tk.ID, "in_progress")

	inProgress, err := svc.Ticket.List(official, ticket.Filter{Status: "in_progress"})
	assert.NoError(t, err)
	assert.Len(t, inProgress, 1)

	open, err := svc.Ticket.List(official, ticket.Filter{Status: "open"})
	assert.NoError(t, err)
	assert.Empty(t, open)
}

func TestTicketStats_CountsVerifiedAsInProgress(t *testing.T) {
	svc, repos := setupServices(t)
	_, tk := assignedTicket(t, svc, repos)
	official := officialSession(50, "Road")

	mustUpdateStatus(t, svc, official, tk.ID, "verified")

	stats, err := svc.Ticket.Stats(official)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalTickets)
	assert.Equal(t, int64(1), stats.InProgress)
	assert.Equal(t, int64(0), stats.OpenTickets)
	assert.Equal(t, "N/A", stats.AvgResponse)
}
