package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-flow/internal/api/http/handlers"
	"github.com/spec-kit/ticket-flow/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Tickets     *handlers.TicketsHandler
	Board       *handlers.BoardHandler
	Search      *handlers.SearchHandler
	Categories  *handlers.CategoriesHandler
	Priorities  *handlers.PrioritiesHandler
	Users       *handlers.UsersHandler
	Permissions *handlers.PermissionsHandler
	Logs        *handlers.LogsHandler
	Metrics     *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": cfg.Metrics.Counters()})
	})

	tickets := app.Group("/tickets")
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Post("/validate", cfg.Tickets.Validate)
	tickets.Post("/import", cfg.Tickets.Import)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Post("/:id/move", cfg.Tickets.Move)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	board := app.Group("/board")
	board.Get("/:stage", cfg.Board.Get)
	board.Post("/:stage/move", cfg.Board.Move)

	search := app.Group("/search")
	search.Get("/", cfg.Search.Search)
	search.Get("/options", cfg.Search.Options)
	search.Get("/suggestions", cfg.Search.Suggestions)

	categories := app.Group("/categories")
	categories.Get("/", cfg.Categories.List)
	categories.Post("/", cfg.Categories.Create)
	categories.Get("/:key", cfg.Categories.Get)
	categories.Put("/:id", cfg.Categories.Update)
	categories.Delete("/:id", cfg.Categories.Delete)

	priorities := app.Group("/priorities")
	priorities.Get("/", cfg.Priorities.List)
	priorities.Post("/", cfg.Priorities.Create)
	priorities.Get("/:key", cfg.Priorities.Get)
	priorities.Put("/:id", cfg.Priorities.Update)
	priorities.Delete("/:id", cfg.Priorities.Delete)

	users := app.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
	users.Get("/:id/permissions", cfg.Users.EffectivePermissions)

	permissions := app.Group("/permissions")
	permissions.Get("/", cfg.Permissions.List)
	permissions.Post("/", cfg.Permissions.Create)
	permissions.Get("/templates", cfg.Permissions.ListTemplates)
	permissions.Post("/templates", cfg.Permissions.CreateTemplate)
	permissions.Get("/templates/role/:role", cfg.Permissions.TemplateForRole)
	permissions.Delete("/templates/:id", cfg.Permissions.DeleteTemplate)
	permissions.Get("/history", cfg.Permissions.History)
	permissions.Post("/changes", cfg.Permissions.ApplyChange)
	permissions.Put("/:id", cfg.Permissions.Update)
	permissions.Delete("/:id", cfg.Permissions.Delete)

	app.Get("/logs", cfg.Logs.List)
}
