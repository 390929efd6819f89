package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/astrelya/cv-to-dc/internal/docx"
	"github.com/astrelya/cv-to-dc/internal/logger"
	"github.com/astrelya/cv-to-dc/internal/mapper"
	"github.com/astrelya/cv-to-dc/internal/models"
	"github.com/astrelya/cv-to-dc/internal/repositories"
	"github.com/astrelya/cv-to-dc/internal/schema"
)

const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	unsafeCharsRe = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// Document is a rendered file ready to be sent to the client.
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

type DocumentService interface {
	Templates() ([]string, error)
	GenerateFromCV(ctx context.Context, cvID uuid.UUID, ownerID string, req models.GenerateRequest) (*Document, error)
	GenerateFromForm(req models.GenerateFormRequest) (*Document, error)
	GenerateCustom(req models.GenerateCustomRequest) (*Document, error)
}

type documentService struct {
	repo     repositories.CVRepository
	renderer docx.Renderer
	now      func() time.Time
}

func NewDocumentService(repo repositories.CVRepository, renderer docx.Renderer) DocumentService {
	return &documentService{
		repo:     repo,
		renderer: renderer,
		now:      time.Now,
	}
}

func (s *documentService) Templates() ([]string, error) {
	return s.renderer.List()
}

func (s *documentService) GenerateFromCV(ctx context.Context, cvID uuid.UUID, ownerID string, req models.GenerateRequest) (*Document, error) {
	cv, err := s.repo.FindByID(ctx, cvID, ownerID)
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
		return nil, &GenerationError{Kind: GenerationFailed, Err: err}
	}

	data, err := mapper.ToTemplate(ext, s.now())
	if err != nil {
		return nil, &GenerationError{Kind: GenerationFailed, Err: err}
	}

	logger.Info().
		Str("cv_id", cv.ID.String()).
		Str("schema_type", string(tag)).
		Str("template", req.TemplateName).
		Int("experiences", len(data.Experience)).
		Msg("generating document from CV")

	name := fmt.Sprintf("CV_%s_%d", whitespaceRe.ReplaceAllString(cv.Title, "_"), s.now().UnixMilli())
	return s.render(req.TemplateName, req.OutputName, name, data)
}

func (s *documentService) GenerateFromForm(req models.GenerateFormRequest) (*Document, error) {
	data := mapper.FromForm(req.Form, s.now())

	name := fmt.Sprintf("CV_%s_%d", whitespaceRe.ReplaceAllString(data.FullName, "_"), s.now().UnixMilli())
	return s.render(req.TemplateName, req.OutputName, name, data)
}

func (s *documentService) GenerateCustom(req models.GenerateCustomRequest) (*Document, error) {
	var data map[string]any
	if err := json.Unmarshal(req.Data, &data); err != nil || data == nil {
		return nil, &ValidationError{Message: "data must be a JSON object"}
	}

	name := fmt.Sprintf("Custom_Document_%d", s.now().UnixMilli())
	return s.render(req.TemplateName, req.OutputName, name, data)
}

func (s *documentService) render(templateName, outputName, defaultName string, data any) (*Document, error) {
	content, err := s.renderer.Render(templateName, data)
	if err != nil {
		var tmplErr *docx.TemplateError
		if errors.As(err, &tmplErr) || errors.Is(err, docx.ErrTemplateNotFound) {
			logger.Warn().Err(err).Str("template", templateName).Msg("template error")
			return nil, &GenerationError{Kind: GenerationTemplate, Err: err}
		}
		logger.Error().Err(err).Str("template", templateName).Msg("document generation failed")
		return nil, &GenerationError{Kind: GenerationFailed, Err: err}
	}

	return &Document{
		FileName:    outputFileName(outputName, defaultName),
		ContentType: DocxContentType,
		Content:     content,
	}, nil
}

func outputFileName(outputName, defaultName string) string {
	name := strings.TrimSuffix(strings.TrimSpace(outputName), ".docx")
	if name == "" {
		name = defaultName
	}
	name = unsafeCharsRe.ReplaceAllString(name, "")
	if name == "" {
		name = "document"
	}
	return name + ".docx"
}
