package handlers

import "github.com/gofiber/fiber/v3"

// Register вешает маршруты сервиса на приложение.
func Register(app fiber.Router, draw *DrawHandler, health *HealthHandler, docs *DocsHandler) {
	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	app.Get("/health/startup", health.StartupProbe)

	// ============================================================
	// Swagger Routes
	// ============================================================

	app.Get("/docs", docs.SwaggerUI)
	app.Get("/docs/openapi.yaml", docs.SwaggerSpec)

	// ============================================================
	// Session Routes
	// ============================================================

	app.Post("/sessions", draw.CreateSession)
	app.Get("/sessions/:id", draw.GetSession)
	app.Delete("/sessions/:id", draw.CloseSession)
	app.Put("/sessions/:id/style", draw.UpdateStyle)
	app.Post("/sessions/:id/mode", draw.SetMode)
	app.Post("/sessions/:id/edit", draw.Edit)
	app.Post("/sessions/:id/cancel", draw.Cancel)
	app.Get("/sessions/:id/alerts", draw.Alerts)

	// ============================================================
	// Feature Routes
	// ============================================================

	app.Post("/sessions/:id/gestures", draw.CompleteGesture)
	app.Get("/sessions/:id/features", draw.ListFeatures)
	app.Delete("/sessions/:id/features", draw.DeleteAllFeatures)
	app.Patch("/sessions/:id/features/:fid", draw.ModifyFeature)
	app.Delete("/sessions/:id/features/:fid", draw.DeleteFeature)
	app.Post("/sessions/:id/features/:fid/restyle", draw.RestyleFeature)
	app.Post("/sessions/:id/undo", draw.Undo)

	// ============================================================
	// Export Routes
	// ============================================================

	app.Get("/sessions/:id/download", draw.Download)
	app.Get("/sessions/:id/preview.png", draw.Preview)
	app.Post("/sessions/:id/snapshots", draw.CreateSnapshot)
	app.Get("/sessions/:id/snapshots", draw.ListSnapshots)
	app.Get("/snapshots/:sid", draw.GetSnapshot)
}
