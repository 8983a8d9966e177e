package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/repository"
)

// BlackoutHandler handles the admin blackout-period endpoints
type BlackoutHandler struct {
	blackoutRepo domain.BlackoutRepository
	planRepo     domain.PlanRepository
	cache        *repository.RedisCacheRepository
}

// NewBlackoutHandler creates a new blackout handler
func NewBlackoutHandler(
	blackoutRepo domain.BlackoutRepository,
	planRepo domain.PlanRepository,
	cache *repository.RedisCacheRepository,
) *BlackoutHandler {
	return &BlackoutHandler{
		blackoutRepo: blackoutRepo,
		planRepo:     planRepo,
		cache:        cache,
	}
}

type createBlackoutRequest struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Reason string `json:"reason"`
}

// ListByPlan handles GET /v1/admin/plans/:id/blackouts
func (h *BlackoutHandler) ListByPlan(c *fiber.Ctx) error {
	periods, err := h.blackoutRepo.FindByPlan(c.UserContext(), c.Params("id"))
	if err != nil {
		log.Printf("[Blackout] Failed to list periods: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch blackout periods",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    periods,
	})
}

// Create handles POST /v1/admin/plans/:id/blackouts
func (h *BlackoutHandler) Create(c *fiber.Ctx) error {
	planID := c.Params("id")

	// Reject blackouts against plans that do not exist
	if _, err := h.planRepo.GetByID(c.UserContext(), planID); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "plan not found",
			})
		}
		log.Printf("[Blackout] Failed to fetch plan: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch plan",
		})
	}

	var req createBlackoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	dr, err := domain.ParseDateRange(req.Start, req.End)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "start and end must be valid dates (YYYY-MM-DD) with start <= end",
		})
	}

	period := &domain.BlackoutPeriod{
		PlanID: planID,
		Range:  dr,
		Reason: req.Reason,
	}
	if err := h.blackoutRepo.Create(c.UserContext(), period); err != nil {
		log.Printf("[Blackout] Failed to create period: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to create blackout period",
		})
	}

	_ = h.cache.InvalidatePlanAvailability(c.UserContext(), planID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    period,
	})
}

// Delete handles DELETE /v1/admin/blackouts/:id
func (h *BlackoutHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	// Fetch first so we know which plan's availability cache to drop
	period, err := h.blackoutRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "blackout period not found",
			})
		}
		log.Printf("[Blackout] Failed to fetch period: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch blackout period",
		})
	}

	if err := h.blackoutRepo.Delete(c.UserContext(), id); err != nil {
		log.Printf("[Blackout] Failed to delete period: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete blackout period",
		})
	}

	_ = h.cache.InvalidatePlanAvailability(c.UserContext(), period.PlanID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "deleted",
	})
}
