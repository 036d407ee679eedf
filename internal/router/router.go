package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gradebook-go-api/internal/config"
	"github.com/noah-isme/gradebook-go-api/internal/handler"
	"github.com/noah-isme/gradebook-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler   *handler.ActivityHandler
	SchemeHandler     *handler.SchemeHandler
	SubmissionHandler *handler.SubmissionHandler
	GradeHandler      *handler.GradeHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	protected := api.Group("", jwtMiddleware)

	if deps.ActivityHandler != nil || deps.SchemeHandler != nil || deps.GradeHandler != nil {
		classes := protected.Group("/classes")
		if deps.ActivityHandler != nil {
			deps.ActivityHandler.RegisterClassRoutes(classes)
		}
		if deps.SchemeHandler != nil {
			deps.SchemeHandler.Register(classes)
		}
		if deps.GradeHandler != nil {
			deps.GradeHandler.RegisterClassRoutes(classes)
		}

		activities := protected.Group("/activities")
		if deps.ActivityHandler != nil {
			deps.ActivityHandler.RegisterActivityRoutes(activities)
		}
		if deps.GradeHandler != nil {
			deps.GradeHandler.RegisterActivityRoutes(activities)
		}
	}

	if deps.SubmissionHandler != nil {
		submissions := protected.Group("/submissions")
		deps.SubmissionHandler.Register(submissions)
	}
}
