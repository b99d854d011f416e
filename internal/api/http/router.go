package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pawhaven/adoption-service/internal/api/http/handlers"
	"github.com/pawhaven/adoption-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Pets           *handlers.PetsHandler
	Applications   *handlers.ApplicationsHandler
	AuthMiddleware *auth.Middleware
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes. Static routes are registered before their
// parameterized siblings so "/profile/me" never matches ":userId".
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.UploadsDir != "" {
		app.Static("/uploads", cfg.UploadsDir)
	}

	requireAuth := cfg.AuthMiddleware.Handle

	users := app.Group("/api/users")
	users.Post("/signup", cfg.Users.Signup)
	users.Post("/login", cfg.Users.Login)
	users.Get("/", cfg.Users.ListUsers)
	users.Get("/profile/me", requireAuth, cfg.Users.GetMyProfile)
	users.Patch("/profile", requireAuth, cfg.Users.UpdateProfile)
	users.Get("/favorites/list", requireAuth, cfg.Users.ListFavorites)
	users.Post("/favorites/:petId", requireAuth, cfg.Users.AddFavorite)
	users.Delete("/favorites/:petId", requireAuth, cfg.Users.RemoveFavorite)
	users.Get("/:userId", cfg.Users.GetUser)

	pets := app.Group("/api/pets")
	pets.Get("/", cfg.Pets.List)
	pets.Post("/", requireAuth, cfg.Pets.Create)
	pets.Get("/user/:userId", cfg.Pets.ListByUser)
	pets.Put("/:petId/adopt", requireAuth, cfg.Pets.Adopt)
	pets.Delete("/:petId", requireAuth, cfg.Pets.Delete)
	pets.Get("/:petId", cfg.Pets.Get)

	applications := app.Group("/api/applications", requireAuth)
	applications.Post("/", cfg.Applications.Submit)
	applications.Get("/mine", cfg.Applications.ListMine)
	applications.Get("/received", cfg.Applications.ListReceived)
	applications.Patch("/:applicationId/review", cfg.Applications.Review)
	applications.Post("/:applicationId/withdraw", cfg.Applications.Withdraw)
}
