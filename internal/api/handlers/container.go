package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/application"
	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/pkg/apperr"
	"github.com/safelive/backend/pkg/response"
	"github.com/safelive/backend/pkg/utils"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Incident     *IncidentHandler
	Ticket       *TicketHandler
	Message      *MessageHandler
	Notification *NotificationHandler
	Analytics    *AnalyticsHandler
	Public       *PublicHandler
	Feed         *FeedHandler
}

func New(svc *application.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Incident:     NewIncidentHandler(svc.Incident),
		Ticket:       NewTicketHandler(svc.Ticket),
		Message:      NewMessageHandler(svc.Message),
		Notification: NewNotificationHandler(svc.Notification),
		Analytics:    NewAnalyticsHandler(svc.Analytics),
		Public:       NewPublicHandler(svc.Analytics),
		Feed:         NewFeedHandler(svc.Hub),
	}
}

// sessionFrom builds the caller capability from JWT claims. Services get
// this value and never touch the request context themselves.
func sessionFrom(c *gin.Context) (application.Session, bool) {
	claims, err := utils.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Err("Unauthorized"))
		return application.Session{}, false
	}
	return application.Session{
		UserID:     claims.UserID,
		Name:       claims.Name,
		Role:       user.UserType(claims.UserType),
		Department: claims.Department,
		Email:      claims.Email,
		Phone:      claims.Phone,
	}, true
}

// fail maps a service error to the HTTP envelope in one place.
func fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	resp := response.Err(err.Error())
	if status == http.StatusInternalServerError {
		resp = response.Err("internal server error")
	}
	resp.Fields = apperr.FieldsOf(err)
	c.JSON(status, resp)
}
