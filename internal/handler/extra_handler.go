package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vivotour/vivotour/internal/domain"
)

// ExtraServiceHandler handles the public extras catalogue and admin CRUD
type ExtraServiceHandler struct {
	extraRepo domain.ExtraServiceRepository
}

// NewExtraServiceHandler creates a new extra service handler
func NewExtraServiceHandler(extraRepo domain.ExtraServiceRepository) *ExtraServiceHandler {
	return &ExtraServiceHandler{
		extraRepo: extraRepo,
	}
}

// ListActive handles GET /v1/extras
func (h *ExtraServiceHandler) ListActive(c *fiber.Ctx) error {
	extras, err := h.extraRepo.GetActive(c.UserContext())
	if err != nil {
		log.Printf("[Extras] Failed to list extras: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch extra services",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    extras,
	})
}

// Create handles POST /v1/admin/extras
func (h *ExtraServiceHandler) Create(c *fiber.Ctx) error {
	var svc domain.ExtraService
	if err := c.BodyParser(&svc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if svc.Key == "" || svc.Label == "" || svc.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "key, label and a non-negative price are required",
		})
	}

	if err := h.extraRepo.Create(c.UserContext(), &svc); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   "an extra service with that key already exists",
			})
		}
		log.Printf("[Extras] Failed to create extra: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to create extra service",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    svc,
	})
}

// Update handles PUT /v1/admin/extras/:id
func (h *ExtraServiceHandler) Update(c *fiber.Ctx) error {
	var svc domain.ExtraService
	if err := c.BodyParser(&svc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	svc.ID = c.Params("id")

	if err := h.extraRepo.Update(c.UserContext(), &svc); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "extra service not found",
			})
		}
		log.Printf("[Extras] Failed to update extra: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to update extra service",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    svc,
	})
}

// Delete handles DELETE /v1/admin/extras/:id
func (h *ExtraServiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.extraRepo.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "extra service not found",
			})
		}
		log.Printf("[Extras] Failed to delete extra: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete extra service",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "deleted",
	})
}
