package main

import (
	"log"

	"call_flow_app_go/config"
	"call_flow_app_go/db"
	"call_flow_app_go/handlers"
	"call_flow_app_go/middleware"
	"call_flow_app_go/models"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.AgentConfig{},
		&models.Call{},
		&models.Prospect{},
		&models.Note{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Provider webhook (signature-authenticated, rate limited before any
	// body parsing)
	webhook := e.Group("/api/webhooks")
	webhook.Use(middleware.WebhookRateLimiter.Middleware())
	{
		webhook.POST("/elevenlabs", handlers.ElevenLabsWebhookHandler)
	}

	// Dashboard API
	api := e.Group("/api/v1")
	api.Use(middleware.APIRateLimiter.Middleware())
	{
		api.GET("/calls", handlers.GetCallsHandler)
		api.GET("/calls/stats", handlers.GetCallStatsHandler)
		api.GET("/calls/export", handlers.ExportCallsHandler)
		api.GET("/calls/:id", handlers.GetCallHandler)

		api.GET("/notifications", handlers.GetNotificationsHandler)
		api.POST("/notifications/:id/read", handlers.MarkNotificationReadHandler)
		api.POST("/notifications/read-all", handlers.MarkAllNotificationsReadHandler)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
