package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/application"
	"github.com/safelive/backend/internal/domain/incident"
	"github.com/safelive/backend/pkg/response"
	"github.com/safelive/backend/pkg/utils"
)

type IncidentHandler struct {
	svc *application.IncidentService
}

func NewIncidentHandler(svc *application.IncidentService) *IncidentHandler {
	return &IncidentHandler{svc: svc}
}

// POST /issues
func (h *IncidentHandler) Create(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}

	var input incident.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	inc, err := h.svc.Submit(c.Request.Context(), session, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(inc))
}

// POST /report, edge-device ingestion with no interactive user.
func (h *IncidentHandler) Report(c *gin.Context) {
	var input incident.ReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	inc, err := h.svc.Report(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(inc))
}

// GET /issues
func (h *IncidentHandler) List(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}

	incidents, err := h.svc.List(session)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(incidents))
}

// GET /issues/stats
func (h *IncidentHandler) Stats(c *gin.Context) {
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

// GET /issues/:id
func (h *IncidentHandler) Get(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	inc, err := h.svc.Get(session, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(inc))
}

// PUT /issues/:id
func (h *IncidentHandler) Update(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	var input incident.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	inc, err := h.svc.Update(session, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(inc))
}

// DELETE /issues/:id
func (h *IncidentHandler) Delete(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	if err := h.svc.Delete(session, id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(true))
}
