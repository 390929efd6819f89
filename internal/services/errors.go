package services

import (
	"errors"
	"fmt"

	"github.com/astrelya/cv-to-dc/internal/repositories"
)

var (
	ErrCVNotFound       = repositories.ErrCVNotFound
	ErrNoExtractionData = errors.New("CV has no processed data available for document generation")
)

// ValidationError rejects input before anything is stored.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type ExtractionErrorKind string

const (
	ExtractionQuota       ExtractionErrorKind = "quota"
	ExtractionAuth        ExtractionErrorKind = "auth"
	ExtractionForbidden   ExtractionErrorKind = "forbidden"
	ExtractionUnavailable ExtractionErrorKind = "unavailable"
	ExtractionUnreachable ExtractionErrorKind = "unreachable"
	ExtractionFailed      ExtractionErrorKind = "failed"
)

var extractionMessages = map[ExtractionErrorKind]string{
	ExtractionQuota:       "Extraction quota exceeded. Please check your plan and billing details.",
	ExtractionAuth:        "Invalid extraction API key. Please check your configuration.",
	ExtractionForbidden:   "Access to the extraction service is forbidden. Please check your API permissions.",
	ExtractionUnavailable: "The extraction service is temporarily unavailable. Please try again later.",
	ExtractionUnreachable: "Unable to connect to the extraction service. Please check your internet connection.",
	ExtractionFailed:      "Failed to process CV",
}

// ExtractionError is a failed call to the extraction model.
type ExtractionError struct {
	Kind ExtractionErrorKind
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Kind == ExtractionFailed && e.Err != nil {
		return fmt.Sprintf("%s: %v", extractionMessages[e.Kind], e.Err)
	}
	return extractionMessages[e.Kind]
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

type GenerationErrorKind string

const (
	GenerationTemplate GenerationErrorKind = "template"
	GenerationFailed   GenerationErrorKind = "generation"
)

// GenerationError is a failed document render. Template problems are the
// caller's to fix; anything else is ours.
type GenerationError struct {
	Kind GenerationErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Kind == GenerationTemplate {
		return fmt.Sprintf("Template error: %v", e.Err)
	}
	return "Failed to render document"
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
