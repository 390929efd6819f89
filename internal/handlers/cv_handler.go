package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/astrelya/cv-to-dc/internal/models"
	"github.com/astrelya/cv-to-dc/internal/services"
)

type CVHandler struct {
	cvService services.CVService
}

func NewCVHandler(cvService services.CVService) *CVHandler {
	return &CVHandler{
		cvService: cvService,
	}
}

func (h *CVHandler) HandleUpload(c *fiber.Ctx) error {
	owner := ownerID(c)
	if owner == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing " + ownerHeader + " header",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	cv, err := h.cvService.Upload(c.UserContext(), services.UploadInput{
		OwnerID:  owner,
		Title:    c.FormValue("title"),
		FileName: file.Filename,
		MimeType: file.Header.Get(fiber.HeaderContentType),
		Content:  content,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		CV:         cv,
		SchemaType: cv.SchemaType,
		Message:    "CV uploaded and processed successfully",
	})
}

func (h *CVHandler) HandleList(c *fiber.Ctx) error {
	owner := ownerID(c)
	if owner == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing " + ownerHeader + " header",
		})
	}

	cvs, err := h.cvService.List(c.UserContext(), owner)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"cvs": cvs,
	})
}

func (h *CVHandler) HandleGet(c *fiber.Ctx) error {
	owner := ownerID(c)
	if owner == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing " + ownerHeader + " header",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid CV ID format",
		})
	}

	cv, err := h.cvService.Get(c.UserContext(), id, owner)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(cv)
}

func (h *CVHandler) HandleDelete(c *fiber.Ctx) error {
	owner := ownerID(c)
	if owner == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing " + ownerHeader + " header",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid CV ID format",
		})
	}

	if err := h.cvService.Delete(c.UserContext(), id, owner); err != nil {
		return writeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetForm returns the stored extraction as prefilled form data.
func (h *CVHandler) HandleGetForm(c *fiber.Ctx) error {
	owner := ownerID(c)
	if owner == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing " + ownerHeader + " header",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid CV ID format",
		})
	}

	form, err := h.cvService.Form(c.UserContext(), id, owner)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(form)
}
