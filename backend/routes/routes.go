package routes

import (
	"classroom/backend/authz"
	"classroom/backend/config"
	"classroom/backend/controllers"
	"classroom/backend/middleware"
	"classroom/backend/session"
	"classroom/backend/store"
	"classroom/backend/workflow"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	users := store.NewUsers(db)
	lessons := store.NewLessons(db)
	ledger := store.NewCompletions(db)

	var storage fiber.Storage
	if cfg.RedisAddr != "" {
		storage = session.NewRedisStorage(cfg.RedisAddr, cfg.RedisPassword)
	}
	sessions := session.NewManager(users, storage)
	completionFlow := workflow.NewCompletions(lessons, ledger, cfg.CompletionPassphrase)

	authController := controllers.NewAuthController(users, sessions)
	lessonsController := controllers.NewLessonsController(lessons, ledger)
	completionsController := controllers.NewCompletionsController(completionFlow, lessons, ledger, sessions)

	// Middleware
	requireUser := middleware.RequireUser(sessions)
	requireTeacher := middleware.RequireAction(sessions, authz.ManageLessons)
	teacherOverview := middleware.RequireAction(sessions, authz.ViewTeacherDashboard)
	markComplete := middleware.RequireAction(sessions, authz.MarkComplete)
	ownCompletions := middleware.RequireAction(sessions, authz.ViewOwnCompletions)

	// Auth routes
	auth := app.Group("/api/auth")
	auth.Post("/signup", authController.Signup)
	auth.Post("/login", authController.Login)
	auth.Post("/logout", authController.Logout)
	auth.Get("/me", authController.Me)

	// Lesson routes
	lessonGroup := app.Group("/api/lessons", requireUser)
	lessonGroup.Get("/", lessonsController.List)
	lessonGroup.Post("/", requireTeacher, lessonsController.Create)
	lessonGroup.Get("/:id/completions", teacherOverview, lessonsController.Completions)
	lessonGroup.Get("/:id", lessonsController.Get)
	lessonGroup.Put("/:id", requireTeacher, lessonsController.Update)
	lessonGroup.Delete("/:id", requireTeacher, lessonsController.Delete)

	// Completion workflow routes
	completionGroup := app.Group("/api/completions")
	completionGroup.Get("/", ownCompletions, completionsController.Mine)
	completionGroup.Post("/:lessonId/request", markComplete, completionsController.Request)
	completionGroup.Post("/:lessonId/verify", markComplete, completionsController.Verify)
	completionGroup.Delete("/:lessonId/request", markComplete, completionsController.Cancel)
}
