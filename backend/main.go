package main

import (
	"log"

	"classroom/backend/config"
	"classroom/backend/middleware"
	"classroom/backend/routes"
	"classroom/backend/store"
	"classroom/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Initialize database
	db, err := store.InitDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error initializing database")
	}

	// Seed the bootstrap teacher account
	if cfg.BootstrapTeacherPassword == "" {
		logger.Warn().Msg("BOOTSTRAP_TEACHER_PASSWORD not set, skipping teacher bootstrap")
	} else if err := store.NewUsers(db).EnsureTeacher(cfg.BootstrapTeacherUsername, cfg.BootstrapTeacherPassword); err != nil {
		logger.Fatal().Err(err).Msg("Error seeding teacher account")
	}

	if cfg.CompletionPassphrase == "" {
		logger.Warn().Msg("COMPLETION_PASSPHRASE not set, completion verification will always fail")
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg)

	// Start server
	logger.Fatal().Err(app.Listen(":" + cfg.ServerPort)).Msg("server stopped")
}
