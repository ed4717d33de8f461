package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/application"
	"github.com/safelive/backend/pkg/response"
)

type PublicHandler struct {
	svc *application.AnalyticsService
}

func NewPublicHandler(svc *application.AnalyticsService) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// GET /public/summary, no auth required.
func (h *PublicHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(summary))
}
