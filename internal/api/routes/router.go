package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/api/handlers"
	"github.com/safelive/backend/internal/api/middleware"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handlers) {
	// --- Public routes ---
	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)
	r.POST("/auth/logout", h.Auth.Logout)
	r.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	r.POST("/auth/reset-password", h.Auth.ResetPassword)
	r.POST("/auth/verify-email", h.Auth.VerifyEmail)

	// Edge device intake, authenticated by device credentials upstream.
	r.POST("/report", h.Incident.Report)

	r.GET("/public/summary", h.Public.Summary)
	r.GET("/ws/incidents", h.Feed.Incidents)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		issues := auth.Group("/issues")
		{
			issues.POST("", h.Incident.Create)
			issues.GET("", h.Incident.List)
			issues.GET("/stats", h.Incident.Stats)
			issues.GET("/:id", h.Incident.Get)
			issues.PUT("/:id", middleware.OfficialOnly(), h.Incident.Update)
			issues.DELETE("/:id", middleware.OfficialOnly(), h.Incident.Delete)
			issues.GET("/:id/messages", h.Message.List)
			issues.POST("/:id/messages", h.Message.Create)
		}

		users := auth.Group("/users")
		{
			users.GET("/profile", h.User.Profile)
			users.PUT("/profile", h.User.UpdateProfile)
		}

		tickets := auth.Group("/tickets")
		tickets.Use(middleware.OfficialOnly())
		{
			tickets.GET("", h.Ticket.List)
			tickets.GET("/stats", h.Ticket.Stats)
			tickets.GET("/:id", h.Ticket.Get)
			tickets.POST("/:id/assign", h.Ticket.Assign)
			tickets.PATCH("/:id/status", h.Ticket.UpdateStatus)
			tickets.POST("/:id/reopen", h.Ticket.Reopen)
		}

		analytics := auth.Group("/analytics")
		analytics.Use(middleware.OfficialOnly())
		{
			analytics.GET("/dashboard", h.Analytics.Dashboard)
			analytics.GET("/trends", h.Analytics.Trends)
			analytics.GET("/heatmap", h.Analytics.Heatmap)
		}

		notifications := auth.Group("/notifications")
		{
			notifications.GET("", h.Notification.List)
			notifications.PATCH("/:id/read", h.Notification.MarkRead)
		}
	}
}
