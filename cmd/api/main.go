package main

import (
	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/api/handlers"
	"github.com/safelive/backend/internal/api/middleware"
	"github.com/safelive/backend/internal/api/routes"
	"github.com/safelive/backend/internal/application"
	"github.com/safelive/backend/internal/config"
	"github.com/safelive/backend/internal/config/db"
	"github.com/safelive/backend/internal/feed"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/internal/storage"
	"github.com/safelive/backend/pkg/logger"
)

func main() {
	// Load configuration from environment variables and .env file
	config.LoadConfig()
	logger.Init()
	log := logger.WithComponent("main")

	// Initialize JWT signing key
	middleware.Init()

	// Initialize database connection and run migrations
	db.Init()

	photos, err := storage.NewMinioStore()
	if err != nil {
		log.Fatalf("failed to initialize photo storage: %v", err)
	}

	hub := feed.NewHub()
	repos := repository.NewRepositories(db.DB)
	services := application.New(repos, photos, hub)
	handlersInstance := handlers.New(services)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())

	routes.RegisterRoutes(router, handlersInstance)

	port := ":" + config.ServerPort
	log.Infof("starting API server on %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("failed to start: %v", err)
	}
}
