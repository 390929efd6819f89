package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/astrelya/cv-to-dc/internal/config"
	"github.com/astrelya/cv-to-dc/internal/logger"
	"github.com/astrelya/cv-to-dc/internal/models"
	"github.com/astrelya/cv-to-dc/internal/repositories"
	"github.com/astrelya/cv-to-dc/internal/services"
)

var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	cfg := config.Load()

	var (
		dir         string
		owner       string
		concurrency int
	)
	pflag.StringVarP(&dir, "dir", "d", "./cvs", "Directory containing CV files")
	pflag.StringVarP(&owner, "owner", "o", "", "Owner ID assigned to the imported CVs")
	pflag.IntVarP(&concurrency, "concurrency", "c", cfg.Ingest.Concurrency, "Number of CVs processed in parallel")
	pflag.Parse()

	logger.Init(cfg.Log)
	logger.Info().Str("dir", dir).Msg("🚀 Starting CV ingestion...")

	if owner == "" {
		logger.Error().Msg("❌ --owner is required")
		return 2
	}

	files, err := listCVFiles(dir)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Failed to read directory")
		return 1
	}
	if len(files) == 0 {
		logger.Warn().Msg("⚠️  No CV files found")
		return 0
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Failed to initialize database")
		return 1
	}

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Error().Err(err).Msg("❌ Failed to create upload directory")
		return 1
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Failed to initialize Gemini")
		return 1
	}

	cvService := services.NewCVService(
		repositories.NewCVRepository(db),
		storageService,
		services.NewExtractor(geminiService, services.NewPDFParserService()),
		cfg.Storage.MaxFileSize,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	succeeded, failed := ingest(ctx, cvService, owner, files, concurrency)

	logger.Info().
		Int64("successful", succeeded).
		Int64("failed", failed).
		Msg("📊 Ingestion summary")

	if failed > 0 {
		logger.Warn().Msg("⚠️  Some CVs failed to ingest. Please check the logs above.")
		return 1
	}
	return 0
}

type uploader interface {
	Upload(ctx context.Context, input services.UploadInput) (*models.CV, error)
}

// ingest uploads files with at most concurrency in flight. Files not started
// before ctx is cancelled count as neither succeeded nor failed.
func ingest(ctx context.Context, svc uploader, owner string, files []string, concurrency int) (succeeded, failed int64) {
	var successCount, failCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for _, path := range files {
		g.Go(func() error {
			// Stop scheduling work once interrupted
			if gctx.Err() != nil {
				return gctx.Err()
			}

			content, err := os.ReadFile(path)
			if err != nil {
				logger.Error().Err(err).Str("file", path).Msg("❌ Failed to read file")
				failCount.Add(1)
				return nil
			}

			name := filepath.Base(path)
			cv, err := svc.Upload(gctx, services.UploadInput{
				OwnerID:  owner,
				FileName: name,
				MimeType: mimeTypes[strings.ToLower(filepath.Ext(name))],
				Content:  content,
			})
			if err != nil {
				logger.Error().Err(err).Str("file", path).Msg("❌ Failed to ingest CV")
				failCount.Add(1)
				return nil
			}

			logger.Info().
				Str("file", path).
				Str("cv_id", cv.ID.String()).
				Str("schema_type", cv.SchemaType).
				Msg("✅ CV ingested")
			successCount.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Msg("⚠️  Ingestion interrupted")
	}
	return successCount.Load(), failCount.Load()
}

// listCVFiles returns the supported files directly inside dir, sorted.
func listCVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := mimeTypes[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
