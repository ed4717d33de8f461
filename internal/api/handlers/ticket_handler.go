package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/application"
	"github.com/safelive/backend/internal/domain/ticket"
	"github.com/safelive/backend/pkg/response"
	"github.com/safelive/backend/pkg/utils"
)

type TicketHandler struct {
	svc *application.TicketService
}

func NewTicketHandler(svc *application.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

// List returns tickets, optionally filtered.
// @Summary List tickets
// @Tags tickets
// @Produce json
// @Param status query string false "Ticket status"
// @Param priority query string false "Ticket priority"
// @Param category query string false "Incident category"
// @Success 200 {object} response.Envelope
// @Router /tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}

	var filter ticket.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	tickets, err := h.svc.List(session, filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(tickets))
}

// GET /tickets/stats
func (h *TicketHandler) Stats(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(session)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(stats))
}

// GET /tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	t, err := h.svc.Get(session, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(t))
}

// Assign puts a field worker on the ticket.
// @Summary Assign personnel to a ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorResponse
// @Failure 412 {object} response.ErrorResponse
// @Router /tickets/{id}/assign [post]
func (h *TicketHandler) Assign(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	var input ticket.AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	t, err := h.svc.Assign(c.Request.Context(), session, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(t))
}

// PATCH /tickets/:id/status
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	var input ticket.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	t, err := h.svc.UpdateStatus(session, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(t))
}

// POST /tickets/:id/reopen, head supervisor only.
func (h *TicketHandler) Reopen(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	var input ticket.ReopenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	t, err := h.svc.Reopen(session, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(t))
}
