package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, cvHandler *CVHandler, documentHandler *DocumentHandler) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	cvs := api.Group("/cvs")
	cvs.Post("/upload", cvHandler.HandleUpload)
	cvs.Get("/", cvHandler.HandleList)
	cvs.Get("/:id", cvHandler.HandleGet)
	cvs.Get("/:id/form", cvHandler.HandleGetForm)
	cvs.Delete("/:id", cvHandler.HandleDelete)

	documents := api.Group("/documents")
	documents.Get("/templates", documentHandler.HandleTemplates)
	documents.Post("/generate/:cvId", documentHandler.HandleGenerateFromCV)
	documents.Post("/generate-form", documentHandler.HandleGenerateFromForm)
	documents.Post("/generate-custom", documentHandler.HandleGenerateCustom)
}

// ErrorHandler renders errors that escape the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
