package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/application"
	"github.com/safelive/backend/pkg/response"
)

type AnalyticsHandler struct {
	svc *application.AnalyticsService
}

func NewAnalyticsHandler(svc *application.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// GET /analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}

	dash, err := h.svc.Dashboard(session)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(dash))
}

// GET /analytics/trends?days=N
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "14"))
	points, err := h.svc.Trends(session, days)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(points))
}

// GET /analytics/heatmap
func (h *AnalyticsHandler) Heatmap(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}

	points, err := h.svc.Heatmap(session)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(points))
}
