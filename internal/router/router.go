package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/quanh171/youtube-analysis/internal/handler"
	"github.com/quanh171/youtube-analysis/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Report *handler.ReportHandler
	Export *handler.ExportHandler
	Health *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics (no rate limit)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// Report routes
	api := app.Group("/api", middleware.NewReportRateLimiter().Handler())

	api.Get("/reports/videos", h.Report.Videos)
	api.Get("/reports/types", h.Report.Types)
	api.Get("/reports/categories", h.Report.Categories)
	api.Get("/reports/monthly", h.Report.Monthly)
	api.Get("/reports/top/views", h.Report.TopViews)
	api.Get("/reports/top/engagement", h.Report.TopEngagement)
	api.Get("/reports/correlations", h.Report.Correlations)
	api.Get("/reports/channels", h.Report.Channels)

	// CSV exports (tighter limit, bigger payloads)
	api.Get("/export/:report", h.Export.Export, middleware.NewExportRateLimiter().Handler())
}
