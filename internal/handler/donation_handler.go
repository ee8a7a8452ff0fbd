package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/givebridge/givebridge/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// DonationHandler handles HTTP requests for donation operations
type DonationHandler struct {
	donations   domain.DonationService
	maxUploadMB int64
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donations domain.DonationService, maxUploadMB int64) *DonationHandler {
	return &DonationHandler{
		donations:   donations,
		maxUploadMB: maxUploadMB,
	}
}

// Create handles POST /donations
func (h *DonationHandler) Create(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid multipart form: " + err.Error(),
		})
	}

	draft := domain.DonationDraft{
		Title:          formValue(form, "title"),
		Description:    formValue(form, "description"),
		Category:       formValue(form, "category"),
		Condition:      formValue(form, "condition"),
		City:           formValue(form, "city"),
		Address:        formValue(form, "address"),
		DonorName:      formValue(form, "donor_name"),
		Email:          formValue(form, "email"),
		ExpirationDate: formValue(form, "expiration_date"),
	}

	image, err := h.imageUpload(form)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	donation, err := h.donations.Create(c.Context(), draft, image)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"errors":  ve.Fields,
			})
		}
		return storageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    donation,
	})
}

// ListAvailable handles GET /donations
func (h *DonationHandler) ListAvailable(c *fiber.Ctx) error {
	donations, err := h.donations.ListAvailable(c.Context())
	if err != nil {
		return storageError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    donations,
	})
}

// ListAll handles GET /donations/all
func (h *DonationHandler) ListAll(c *fiber.Ctx) error {
	donations, err := h.donations.ListAll(c.Context())
	if err != nil {
		return storageError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    donations,
	})
}

// Get handles GET /donations/:id
func (h *DonationHandler) Get(c *fiber.Ctx) error {
	donation, err := h.donations.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound || err == domain.ErrInvalidID {
			return notFound(c)
		}
		return storageError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    donation,
	})
}

// ToggleAvailability handles PUT /donations/:id
func (h *DonationHandler) ToggleAvailability(c *fiber.Ctx) error {
	id := c.Params("id")

	available, err := h.donations.ToggleAvailability(c.Context(), id)
	if err != nil {
		if err == domain.ErrNotFound || err == domain.ErrInvalidID {
			return notFound(c)
		}
		return storageError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":        id,
			"available": available,
		},
	})
}

// Delete handles DELETE /donations/:id
func (h *DonationHandler) Delete(c *fiber.Ctx) error {
	err := h.donations.Delete(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound || err == domain.ErrInvalidID {
			return notFound(c)
		}
		return storageError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "donation deleted",
	})
}

// imageUpload reads the optional "image" form file into memory
func (h *DonationHandler) imageUpload(form *multipart.Form) (*domain.ImageUpload, error) {
	files := form.File["image"]
	if len(files) == 0 {
		return nil, nil
	}
	imageFile := files[0]

	maxBytes := h.maxUploadMB * 1024 * 1024
	if imageFile.Size > maxBytes {
		return nil, fmt.Errorf("file size exceeds maximum of %dMB", h.maxUploadMB)
	}

	if !isValidImageType(imageFile) {
		return nil, fmt.Errorf("invalid file type, only JPEG, PNG, GIF, and WEBP images are allowed")
	}

	fileHandle, err := imageFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file")
	}
	defer fileHandle.Close()

	data, err := io.ReadAll(fileHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file")
	}

	return &domain.ImageUpload{
		Data:        data,
		Filename:    imageFile.Filename,
		ContentType: imageFile.Header.Get("Content-Type"),
	}, nil
}

// isValidImageType checks if the uploaded file is a valid image type
func isValidImageType(file *multipart.FileHeader) bool {
	// Check by content type
	contentType := file.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	}

	// Fallback: check by file extension
	ext := strings.ToLower(filepath.Ext(file.Filename))
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".gif" || ext == ".webp"
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"error":   "donation not found",
	})
}

// storageError hides internal detail from the client. The full error is
// logged server-side only.
func storageError(c *fiber.Ctx, err error) error {
	log.Printf("storage error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "storage unavailable",
	})
}
