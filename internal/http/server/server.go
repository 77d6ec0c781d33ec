package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"barcodegen/internal/config"
	"barcodegen/internal/http/handlers"
	"barcodegen/internal/http/middleware"
	"barcodegen/internal/infra/cache"
	"barcodegen/internal/infra/logging"
	"barcodegen/internal/infra/metrics"
)

// Deps are the collaborators the HTTP app is built from. Cache may be nil.
type Deps struct {
	Config config.Config
	Cache  cache.Store
}

// New creates and configures a new Fiber app instance
func New(deps Deps) *fiber.App {
	cfg := deps.Config
	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			logging.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		},
	})

	middleware.Register(app)
	registerRoutes(app, handlers.NewBarcodeService(cfg, deps.Cache))

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

func registerRoutes(app *fiber.App, svc *handlers.BarcodeService) {
	app.Get("/generate-barcode/", svc.HandleGenerate)
	app.Get("/symbologies", svc.HandleSymbologies)

	app.Get("/metrics", metrics.Handler())
	app.Get("/monitor", monitor.New())
}
