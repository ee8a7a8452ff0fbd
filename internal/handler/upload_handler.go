package handler

import (
	"github.com/givebridge/givebridge/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// UploadHandler serves stored donation images back to clients
type UploadHandler struct {
	files domain.FileRepository
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(files domain.FileRepository) *UploadHandler {
	return &UploadHandler{
		files: files,
	}
}

// Serve handles GET /api/uploads/:filename
func (h *UploadHandler) Serve(c *fiber.Ctx) error {
	filename := c.Params("filename")

	data, contentType, err := h.files.Open(c.Context(), filename)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "file not found",
			})
		}
		return storageError(c, err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(fiber.StatusOK).Send(data)
}
