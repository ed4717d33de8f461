package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/application"
	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/pkg/response"
)

type UserHandler struct {
	svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GET /users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}

	profile, err := h.svc.Profile(session)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(profile))
}

// PUT /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	var input user.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	profile, err := h.svc.UpdateProfile(session, input)
	if err != nil {
		if errors.Is(err, application.ErrUserExists) {
			c.JSON(http.StatusBadRequest, response.Err("User exists"))
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(profile))
}
