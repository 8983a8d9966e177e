package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/middleware"
)

// GalleryHandler handles the public gallery listing and admin uploads
type GalleryHandler struct {
	galleryRepo domain.GalleryRepository
	fileRepo    domain.FileRepository
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(galleryRepo domain.GalleryRepository, fileRepo domain.FileRepository) *GalleryHandler {
	return &GalleryHandler{
		galleryRepo: galleryRepo,
		fileRepo:    fileRepo,
	}
}

// List handles GET /v1/gallery
func (h *GalleryHandler) List(c *fiber.Ctx) error {
	images, err := h.galleryRepo.GetAll(c.UserContext())
	if err != nil {
		log.Printf("[Gallery] Failed to list images: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch gallery",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    images,
	})
}

// Upload handles POST /v1/admin/gallery (multipart form: "image", "title")
func (h *GalleryHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "image file is required",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "only jpeg, png and webp images are accepted",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("[Gallery] Failed to open upload: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to read upload",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[Gallery] Failed to read upload: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to read upload",
		})
	}

	// Object key is content-addressed by ULID so uploads never collide
	filename := fmt.Sprintf("gallery/%s%s", ulid.Make().String(), filepath.Ext(fileHeader.Filename))

	url, err := h.fileRepo.Upload(c.UserContext(), data, filename, contentType)
	if err != nil {
		log.Printf("[Gallery] Upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to store image",
		})
	}

	uploadedBy, _ := c.Locals(middleware.UserIDKey).(string)

	img := &domain.GalleryImage{
		Title:       c.FormValue("title", fileHeader.Filename),
		URL:         url,
		ContentType: contentType,
		UploadedBy:  uploadedBy,
	}
	if err := h.galleryRepo.Create(c.UserContext(), img); err != nil {
		log.Printf("[Gallery] Failed to persist image record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to save image",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    img,
	})
}

// Delete handles DELETE /v1/admin/gallery/:id
func (h *GalleryHandler) Delete(c *fiber.Ctx) error {
	if err := h.galleryRepo.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "image not found",
			})
		}
		log.Printf("[Gallery] Failed to delete image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete image",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "deleted",
	})
}
