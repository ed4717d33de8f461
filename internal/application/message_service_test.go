package application

import (
	"testing"

	"github.com/safelive/backend/internal/domain/message"
	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/pkg/apperr"
	"github.com/stretchr/testify/assert"
)

// --------------------- Thread roundtrip ---------------------

func TestMessages_PostAndListInOrder(t *testing.T) {
	svc, repos := setupServices(t)
	citizen := seedUser(t, repos, "asha", user.TypeCitizen, "")
	official := seedUser(t, repos, "rao", user.TypeOfficial, "Road")
	inc := submitIncident(t, svc, citizenSession(citizen.ID))

	first, err := svc.Message.Post(citizenSession(citizen.ID), inc.ID, message.CreateInput{Message: "Any update on this?"})
	assert.NoError(t, err)
	assert.Equal(t, citizen.ID, first.SenderID)
	assert.Equal(t, "Asha", first.Sender)

	_, err = svc.Message.Post(officialSession(official.ID, "Road"), inc.ID, message.CreateInput{Message: "Crew scheduled for tomorrow."})
	assert.NoError(t, err)

	thread, err := svc.Message.List(citizenSession(citizen.ID), inc.ID)
	assert.NoError(t, err)
	if assert.Len(t, thread, 2) {
		assert.Equal(t, "Any update on this?", thread[0].Body)
		assert.Equal(t, "Crew scheduled for tomorrow.", thread[1].Body)
	}
}

func TestMessages_FlagIncidentOnFirstPost(t *testing.T) {
	svc, repos := setupServices(t)
	citizen := seedUser(t, repos, "asha", user.TypeCitizen, "")
	inc := submitIncident(t, svc, citizenSession(citizen.ID))
	assert.False(t, inc.HasMessages)

	_, err := svc.Message.Post(citizenSession(citizen.ID), inc.ID, message.CreateInput{Message: "Following up."})
	assert.NoError(t, err)

	reloaded, err := repos.Incident.GetIncidentByID(inc.ID)
	assert.NoError(t, err)
	assert.True(t, reloaded.HasMessages)
}

func TestMessages_RejectsBlankBody(t *testing.T) {
	svc, repos := setupServices(t)
	citizen := seedUser(t, repos, "asha", user.TypeCitizen, "")
	inc := submitIncident(t, svc, citizenSession(citizen.ID))

	_, err := svc.Message.Post(citizenSession(citizen.ID), inc.ID, message.CreateInput{Message: "   "})
	assert.Contains(t, apperr.FieldsOf(err), "message")
}

// --------------------- Access control ---------------------

func TestMessages_StrangerCitizenForbidden(t *testing.T) {
	svc, repos := setupServices(t)
	reporter := seedUser(t, repos, "asha", user.TypeCitizen, "")
	stranger := seedUser(t, repos, "vik", user.TypeCitizen, "")
	inc := submitIncident(t, svc, citizenSession(reporter.ID))

	_, err := svc.Message.List(citizenSession(stranger.ID), inc.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Message.Post(citizenSession(stranger.ID), inc.ID, message.CreateInput{Message: "mine too"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestMessages_UnknownIncident(t *testing.T) {
	svc, repos := setupServices(t)
	citizen := seedUser(t, repos, "asha", user.TypeCitizen, "")

	_, err := svc.Message.List(citizenSession(citizen.ID), 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// --------------------- Cleanup ---------------------

func TestMessages_DeletedWithIncident(t *testing.T) {
	svc, repos := setupServices(t)
	citizen := seedUser(t, repos, "asha", user.TypeCitizen, "")
	official := seedUser(t, repos, "rao", user.TypeOfficial, "Road")
	inc := submitIncident(t, svc, citizenSession(citizen.ID))

	_, err := svc.Message.Post(citizenSession(citizen.ID), inc.ID, message.CreateInput{Message: "Please fix soon."})
	assert.NoError(t, err)

	err = svc.Incident.Delete(officialSession(official.ID, "Road"), inc.ID)
	assert.NoError(t, err)

	left, err := repos.Message.ListMessagesByIncident(inc.ID)
	assert.NoError(t, err)
	assert.Empty(t, left)
}
