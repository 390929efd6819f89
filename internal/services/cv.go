package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/astrelya/cv-to-dc/internal/logger"
	"github.com/astrelya/cv-to-dc/internal/mapper"
	"github.com/astrelya/cv-to-dc/internal/models"
	"github.com/astrelya/cv-to-dc/internal/repositories"
	"github.com/astrelya/cv-to-dc/internal/schema"
)

const defaultConfidence = 95

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// UploadInput is one CV file as received from a client.
type UploadInput struct {
	OwnerID  string
	Title    string
	FileName string
	MimeType string
	Content  []byte
}

type CVService interface {
	// Upload stores the file, runs extraction and persists the structured
	// records. The returned CV is in its final state (COMPLETED or FAILED).
	Upload(ctx context.Context, input UploadInput) (*models.CV, error)
	List(ctx context.Context, ownerID string) ([]models.CV, error)
	Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.CV, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
	// Form prefills the editable form from the stored extraction.
	Form(ctx context.Context, id uuid.UUID, ownerID string) (*models.FormData, error)
}

type cvService struct {
	repo        repositories.CVRepository
	storage     StorageService
	extractor   Extractor
	maxFileSize int64
}

func NewCVService(repo repositories.CVRepository, storage StorageService, extractor Extractor, maxFileSize int64) CVService {
	return &cvService{
		repo:        repo,
		storage:     storage,
		extractor:   extractor,
		maxFileSize: maxFileSize,
	}
}

func (s *cvService) validate(input UploadInput) error {
	if len(input.Content) == 0 {
		return &ValidationError{Message: "No file provided"}
	}
	if int64(len(input.Content)) > s.maxFileSize {
		return &ValidationError{Message: fmt.Sprintf("File size exceeds maximum allowed size of %dMB", s.maxFileSize/(1024*1024))}
	}
	if !allowedMimeTypes[strings.ToLower(input.MimeType)] {
		return &ValidationError{Message: "Invalid file type. Only PDF and image files (JPEG, PNG, GIF, WEBP) are allowed"}
	}
	return nil
}

func (s *cvService) Upload(ctx context.Context, input UploadInput) (*models.CV, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	mimeType := strings.ToLower(input.MimeType)

	filePath, err := s.storage.Save(input.Content, input.FileName)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = strings.TrimSuffix(input.FileName, filepath.Ext(input.FileName))
	}

	cv := &models.CV{
		OwnerID:         input.OwnerID,
		Title:           title,
		FileName:        input.FileName,
		FileSize:        int64(len(input.Content)),
		MimeType:        mimeType,
		FilePath:        filePath,
		Status:          models.StatusProcessing,
		Confidence:      0,
		ProcessingNotes: pq.StringArray{"Processing started"},
	}
	if err := s.repo.Create(ctx, cv); err != nil {
		if delErr := s.storage.Delete(filePath); delErr != nil {
			logger.Warn().Err(delErr).Str("path", filePath).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}

	log := logger.Logger.With().Str("cv_id", cv.ID.String()).Str("owner_id", cv.OwnerID).Str("mime_type", mimeType).Logger()
	log.Info().Msg("CV processing started")

	if err := s.process(ctx, cv.ID, input.Content, mimeType); err != nil {
		log.Error().Err(err).Msg("CV processing failed")
		if markErr := s.repo.MarkFailed(ctx, cv.ID, "Processing failed: "+err.Error()); markErr != nil {
			log.Error().Err(markErr).Msg("failed to mark CV as failed")
		}
		return nil, err
	}

	log.Info().Msg("CV processing completed")
	return s.repo.FindByID(ctx, cv.ID, cv.OwnerID)
}

func (s *cvService) process(ctx context.Context, id uuid.UUID, content []byte, mimeType string) error {
	raw, err := s.extractor.Extract(ctx, content, mimeType)
	if err != nil {
		return err
	}

	ext, err := schema.Parse(raw)
	if err != nil {
		return err
	}

	records, err := mapper.ToRecords(ext)
	if err != nil {
		return err
	}

	data := completionData(ext, raw, records)
	if err := s.repo.Complete(ctx, id, data); err != nil {
		logger.Error().Err(err).
			Str("schema_type", data.SchemaType).
			Str("cv_id", id.String()).
			Strs("keys", schema.Keys(raw)).
			Msg("failed to save structured data")
		return fmt.Errorf("failed to save structured data: %w", err)
	}
	return nil
}

func completionData(ext schema.Extraction, raw []byte, records *models.RecordSet) *repositories.CompletionData {
	data := &repositories.CompletionData{
		SchemaType:      string(ext.Tag()),
		ExtractionData:  datatypes.JSON(raw),
		Confidence:      defaultConfidence,
		ProcessingNotes: []string{},
		Records:         records,
	}

	switch cv := ext.(type) {
	case *schema.LegacyCV:
		data.ExtractedText = cv.ExtractedText.String()
		if cv.Confidence != 0 {
			data.Confidence = float64(cv.Confidence)
		}
		for _, note := range cv.ProcessingNotes {
			if n := note.Trim(); n != "" {
				data.ProcessingNotes = append(data.ProcessingNotes, n)
			}
		}
	case *schema.CustomCV:
		data.ExtractedText = cv.Summary.String()
		if n := cv.Notes.Trim(); n != "" {
			data.ProcessingNotes = []string{n}
		}
	}
	return data
}

func (s *cvService) List(ctx context.Context, ownerID string) ([]models.CV, error) {
	return s.repo.FindAllByOwner(ctx, ownerID)
}

func (s *cvService) Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.CV, error) {
	return s.repo.FindByID(ctx, id, ownerID)
}

func (s *cvService) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	cv, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.storage.Delete(cv.FilePath); err != nil {
		logger.Warn().Err(err).Str("cv_id", id.String()).Msg("failed to remove stored file")
	}
	return nil
}

func (s *cvService) Form(ctx context.Context, id uuid.UUID, ownerID string) (*models.FormData, error) {
	cv, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if len(cv.ExtractionData) == 0 || string(cv.ExtractionData) == "null" {
		return nil, ErrNoExtractionData
	}

	// Rows written before the tag was stored are classified again
	tag := schema.Tag(cv.SchemaType)
	if tag == "" {
		tag = schema.Classify(cv.ExtractionData)
	}

	ext, err := schema.Decode(cv.ExtractionData, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to decode extraction data: %w", err)
	}

	form, err := mapper.ToForm(ext)
	if err != nil {
		return nil, err
	}
	return &form, nil
}
