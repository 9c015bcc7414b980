package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	ServiceName    = "Resume Scorer API"
	serviceVersion = "1.0.0"
)

// RegisterRoutes mounts the API on app.
func RegisterRoutes(app *fiber.App, analyze *AnalyzeHandler) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/analyze", analyze.HandleAnalyze)
	api.Post("/analyze/text", analyze.HandleAnalyzeText)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": ServiceName,
			"version": serviceVersion,
			"endpoints": []string{
				"POST /api/v1/analyze",
				"POST /api/v1/analyze/text",
				"GET /api/v1/health",
			},
		})
	})
}

// ErrorHandler renders errors that escape a handler as a JSON error body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return errorResponse(c, code, err.Error())
}
