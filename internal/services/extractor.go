package services

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"

	"google.golang.org/genai"

	"github.com/astrelya/cv-to-dc/internal/logger"
)

const (
	pdfPlaceholderText = "PDF content could not be extracted. Please try with a different PDF file."
	fallbackNote       = "Failed to parse structured data, returning raw text"
	fallbackSummaryLen = 500
	fallbackConfidence = 50
)

// Extractor turns an uploaded CV into the raw JSON tree returned by the model.
type Extractor interface {
	Extract(ctx context.Context, content []byte, mimeType string) (json.RawMessage, error)
}

type extractor struct {
	gemini  GeminiService
	pdf     PDFParserService
	prompts *PromptBuilder
}

func NewExtractor(gemini GeminiService, pdf PDFParserService) Extractor {
	return &extractor{
		gemini:  gemini,
		pdf:     pdf,
		prompts: NewPromptBuilder(),
	}
}

func (e *extractor) Extract(ctx context.Context, content []byte, mimeType string) (json.RawMessage, error) {
	if mimeType == "application/pdf" {
		return e.extractPDF(ctx, content)
	}
	return e.extractImage(ctx, content, mimeType)
}

func (e *extractor) extractPDF(ctx context.Context, content []byte) (json.RawMessage, error) {
	text, err := e.pdf.ExtractText(content)
	if err != nil {
		logger.Warn().Err(err).Msg("PDF text extraction failed, sending placeholder")
		text = pdfPlaceholderText
	}
	logger.Info().Int("characters", len(text)).Msg("extracted text from PDF")

	parts := []*genai.Part{genai.NewPartFromText(e.prompts.BuildPDFUserPrompt(text))}
	response, err := e.gemini.GenerateJSON(ctx, e.prompts.BuildPDFSystemPrompt(), parts)
	if err != nil {
		return nil, classifyExtractionError(err)
	}

	if raw, ok := parseObject(response); ok {
		return raw, nil
	}

	logger.Error().Str("mime_type", "application/pdf").Msg("failed to parse model response as JSON")
	return json.Marshal(map[string]any{
		"name":             "",
		"headline":         "",
		"years_experience": "",
		"contact":          map[string]any{},
		"summary":          truncate(text, fallbackSummaryLen) + "...",
		"experience":       []any{},
		"education":        []any{},
		"certifications":   []any{},
		"skills":           map[string]any{},
		"languages":        []any{},
		"projects":         []any{},
		"affiliations":     []any{},
		"awards":           []any{},
		"notes":            fallbackNote,
	})
}

func (e *extractor) extractImage(ctx context.Context, content []byte, mimeType string) (json.RawMessage, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(e.prompts.BuildImageUserPrompt()),
		genai.NewPartFromBytes(content, mimeType),
	}
	response, err := e.gemini.GenerateJSON(ctx, e.prompts.BuildImageSystemPrompt(), parts)
	if err != nil {
		return nil, classifyExtractionError(err)
	}

	if raw, ok := parseObject(response); ok {
		return raw, nil
	}

	logger.Error().Str("mime_type", mimeType).Msg("failed to parse model response as JSON")
	return json.Marshal(map[string]any{
		"personalInfo":    map[string]any{},
		"workExperience":  []any{},
		"education":       []any{},
		"skills":          map[string]any{"technical": []any{}, "languages": []any{}, "soft": []any{}, "tools": []any{}},
		"certifications":  []any{},
		"projects":        []any{},
		"languages":       []any{},
		"extractedText":   response,
		"confidence":      fallbackConfidence,
		"processingNotes": []string{fallbackNote},
	})
}

// parseObject accepts the response only when it holds a JSON object.
func parseObject(response string) (json.RawMessage, bool) {
	cleaned := strings.TrimSpace(extractJSON(response))
	if !strings.HasPrefix(cleaned, "{") || !json.Valid([]byte(cleaned)) {
		return nil, false
	}
	return json.RawMessage(cleaned), true
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

func classifyExtractionError(err error) error {
	kind := ExtractionFailed

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	var netErr *net.OpError
	var dnsErr *net.DNSError

	code := 0
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	case errors.As(err, &dnsErr), errors.As(err, &netErr):
		kind = ExtractionUnreachable
	}

	switch {
	case code == 429:
		kind = ExtractionQuota
	case code == 401:
		kind = ExtractionAuth
	case code == 403:
		kind = ExtractionForbidden
	case code >= 500:
		kind = ExtractionUnavailable
	}

	logger.Error().Err(err).Str("kind", string(kind)).Msg("extraction failed")
	return &ExtractionError{Kind: kind, Err: err}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
