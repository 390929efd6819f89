package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/astrelya/cv-to-dc/internal/logger"
	"github.com/astrelya/cv-to-dc/internal/models"
	"github.com/astrelya/cv-to-dc/internal/services"
)

type DocumentHandler struct {
	documentService services.DocumentService
	validator       *validator.Validate
}

func NewDocumentHandler(documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		validator:       validator.New(),
	}
}

func (h *DocumentHandler) HandleTemplates(c *fiber.Ctx) error {
	templates, err := h.documentService.Templates()
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(models.TemplatesResponse{Templates: templates})
}

func (h *DocumentHandler) HandleGenerateFromCV(c *fiber.Ctx) error {
	owner := ownerID(c)
	if owner == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing " + ownerHeader + " header",
		})
	}

	cvID, err := uuid.Parse(c.Params("cvId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid CV ID format",
		})
	}

	var req models.GenerateRequest
	if err := h.parse(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	doc, err := h.documentService.GenerateFromCV(c.UserContext(), cvID, owner, req)
	if err != nil {
		return writeError(c, err)
	}

	return sendDocument(c, doc)
}

func (h *DocumentHandler) HandleGenerateFromForm(c *fiber.Ctx) error {
	var req models.GenerateFormRequest
	if err := h.parse(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	doc, err := h.documentService.GenerateFromForm(req)
	if err != nil {
		return writeError(c, err)
	}

	return sendDocument(c, doc)
}

func (h *DocumentHandler) HandleGenerateCustom(c *fiber.Ctx) error {
	var req models.GenerateCustomRequest
	if err := h.parse(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	doc, err := h.documentService.GenerateCustom(req)
	if err != nil {
		return writeError(c, err)
	}

	return sendDocument(c, doc)
}

// parse decodes and validates the body. The error text is safe to return to
// the client.
func (h *DocumentHandler) parse(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

func sendDocument(c *fiber.Ctx, doc *services.Document) error {
	logger.Info().Str("file", doc.FileName).Int("size", len(doc.Content)).Msg("document generated")

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, doc.FileName))
	return c.Status(fiber.StatusOK).Send(doc.Content)
}
