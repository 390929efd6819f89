package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/astrelya/cv-to-dc/internal/config"
	"github.com/astrelya/cv-to-dc/internal/docx"
	"github.com/astrelya/cv-to-dc/internal/handlers"
	"github.com/astrelya/cv-to-dc/internal/logger"
	"github.com/astrelya/cv-to-dc/internal/repositories"
	"github.com/astrelya/cv-to-dc/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.Log)
	logger.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize database")
	}

	cvRepo := repositories.NewCVRepository(db)
	logger.Info().Msg("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to create upload directory")
	}

	renderer := docx.NewRenderer(cfg.Templates.Path)
	if err := renderer.EnsureDir(); err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to create templates directory")
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize Gemini AI")
	}
	logger.Info().Str("model", cfg.Gemini.Model).Msg("✅ Gemini AI initialized successfully")

	extractor := services.NewExtractor(geminiService, services.NewPDFParserService())
	cvService := services.NewCVService(cvRepo, storageService, extractor, cfg.Storage.MaxFileSize)
	documentService := services.NewDocumentService(cvRepo, renderer)
	logger.Info().Msg("✅ Services initialized successfully")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CV to DC API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-User-ID",
		ExposeHeaders: "Content-Disposition",
	}))

	handlers.SetupRoutes(app,
		handlers.NewCVHandler(cvService),
		handlers.NewDocumentHandler(documentService),
	)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV to DC API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/cvs/upload",
				"GET /api/v1/cvs",
				"GET /api/v1/cvs/:id",
				"DELETE /api/v1/cvs/:id",
				"GET /api/v1/documents/templates",
				"POST /api/v1/documents/generate/:cvId",
				"POST /api/v1/documents/generate-form",
				"POST /api/v1/documents/generate-custom",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info().Msg("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("🚀 Server starting")

	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}
