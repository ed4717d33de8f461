package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/application"
	"github.com/safelive/backend/internal/domain/message"
	"github.com/safelive/backend/pkg/response"
	"github.com/safelive/backend/pkg/utils"
)

type MessageHandler struct {
	svc *application.MessageService
}

func NewMessageHandler(svc *application.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// GET /issues/:id/messages
func (h *MessageHandler) List(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	items, err := h.svc.List(session, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(items))
}

// POST /issues/:id/messages
func (h *MessageHandler) Create(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}
	var input message.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	msg, err := h.svc.Post(session, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(msg))
}
