package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"docflow/internal/http/middleware"
	"docflow/internal/service"
)

// HealthCheck reports readiness by pinging the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness endpoint with no dependencies.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Document routes require a session; ChangeStatus additionally checks the
// admin role inside the handler.
func RegisterRoutes(app *fiber.App, db *sql.DB, store *session.Store, authSvc service.AuthService, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/login", LoginPage(store))
	app.Post("/login", LoginSubmit(store, authSvc))
	app.Get("/logout", Logout(store))

	requireUser := middleware.RequireUser(store, authSvc)
	app.Get("/", requireUser, Home(store, docSvc))
	app.Get("/upload", requireUser, UploadPage(store))
	app.Post("/upload", requireUser, UploadSubmit(store, docSvc))
	app.Get("/change_status/:id/:status", requireUser, ChangeStatus(store, docSvc))
	app.Get("/delete/:id", requireUser, Delete(store, docSvc))
	app.Get("/download/:id", requireUser, Download(store, docSvc))
}
