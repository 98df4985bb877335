package routes

import (
	"time"

	"github.com/gatherly/gatherly-backend/internal/authz"
	"github.com/gatherly/gatherly-backend/internal/config"
	"github.com/gatherly/gatherly-backend/internal/handlers"
	"github.com/gatherly/gatherly-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	resolver *authz.Resolver,
	authHandler *handlers.AuthHandler,
	activityHandler *handlers.ActivityHandler,
	profileHandler *handlers.ProfileHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/user", middleware.JWTProtected(cfg), authHandler.CurrentUser)

	// Activities
	activities := api.Group("/activities", middleware.JWTProtected(cfg))
	activities.Get("/", activityHandler.List)
	activities.Get("/:id", activityHandler.Get)
	activities.Post("/", activityHandler.Create)
	activities.Post("/:id/attend", activityHandler.Attend)
	activities.Delete("/:id/attend", activityHandler.Unattend)

	// Host-gated mutations: the gate re-derives the decision per request from
	// the :id route parameter.
	activities.Put("/:id", middleware.HostRequired(resolver), activityHandler.Edit)
	activities.Delete("/:id", middleware.HostRequired(resolver), activityHandler.Delete)

	// Profiles & photos
	api.Get("/profiles/:username", middleware.JWTProtected(cfg), profileHandler.Get)
	photos := api.Group("/photos", middleware.JWTProtected(cfg))
	photos.Post("/", profileHandler.AddPhoto)
	photos.Post("/:id/setmain", profileHandler.SetMainPhoto)
	photos.Delete("/:id", profileHandler.DeletePhoto)
}
