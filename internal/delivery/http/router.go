package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/health", handler.DependencyHealth)

		// Recommendation pipeline
		api.Post("/recommendations", handler.GetRecommendations)
		api.Get("/recommendations/history", handler.GetRecommendationHistory)

		// Climate detection
		api.Post("/climate", handler.ResolveClimate)
		api.Get("/climate/pattern", handler.ClassifyClimatePattern)

		api.Post("/budget/parse", handler.ParseBudget)
	}
}

// ErrorHandler renders fiber errors as {"error": true, "message": ...}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
