package handler

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/repository"
	"github.com/vivotour/vivotour/internal/service"
)

const availabilityCacheTTL = 60 * time.Second

// PlanHandler handles the public plan catalogue and the admin plan and
// accommodation CRUD.
type PlanHandler struct {
	planRepo          domain.PlanRepository
	accommodationRepo domain.AccommodationRepository
	availability      *service.AvailabilityChecker
	cache             *repository.RedisCacheRepository
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(
	planRepo domain.PlanRepository,
	accommodationRepo domain.AccommodationRepository,
	availability *service.AvailabilityChecker,
	cache *repository.RedisCacheRepository,
) *PlanHandler {
	return &PlanHandler{
		planRepo:          planRepo,
		accommodationRepo: accommodationRepo,
		availability:      availability,
		cache:             cache,
	}
}

// ListPlans handles GET /v1/plans
func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.planRepo.GetActivePlans(c.UserContext())
	if err != nil {
		log.Printf("[Plans] Failed to list plans: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch plans",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    plans,
	})
}

// GetPlan handles GET /v1/plans/:id
func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	plan, err := h.planRepo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "plan not found",
			})
		}
		log.Printf("[Plans] Failed to fetch plan: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch plan",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    plan,
	})
}

type availabilityResponse struct {
	Available bool                   `json:"available"`
	Reason    string                 `json:"reason,omitempty"`
	Blocked   []service.BlockedRange `json:"blocked"`
}

// GetAvailability handles GET /v1/plans/:id/availability?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *PlanHandler) GetAvailability(c *fiber.Ctx) error {
	planID := c.Params("id")

	window, err := domain.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "from and to must be valid dates (YYYY-MM-DD) with from <= to",
		})
	}

	cacheKey := fmt.Sprintf("availability:%s:%s:%s",
		planID, window.Start.Format(domain.DateLayout), window.End.Format(domain.DateLayout))

	var cached availabilityResponse
	if err := h.cache.Get(c.UserContext(), cacheKey, &cached); err == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    cached,
		})
	}

	result, err := h.availability.Check(c.UserContext(), planID, window)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "plan not found",
			})
		}
		log.Printf("[Plans] Availability check failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "availability could not be determined",
		})
	}

	blocked, err := h.availability.Calendar(c.UserContext(), planID, window)
	if err != nil {
		log.Printf("[Plans] Availability calendar failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "availability could not be determined",
		})
	}

	resp := availabilityResponse{
		Available: result.Available,
		Reason:    result.Reason,
		Blocked:   blocked,
	}
	_ = h.cache.Set(c.UserContext(), cacheKey, resp, availabilityCacheTTL)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resp,
	})
}

// --- Admin plan CRUD ---

// ListAllPlans handles GET /v1/admin/plans
func (h *PlanHandler) ListAllPlans(c *fiber.Ctx) error {
	plans, err := h.planRepo.GetAll(c.UserContext())
	if err != nil {
		log.Printf("[Plans] Failed to list plans: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch plans",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    plans,
	})
}

// CreatePlan handles POST /v1/admin/plans
func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	var plan domain.Plan
	if err := c.BodyParser(&plan); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if err := plan.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	if err := h.planRepo.Create(c.UserContext(), &plan); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   "a plan with that title already exists",
			})
		}
		log.Printf("[Plans] Failed to create plan: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to create plan",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    plan,
	})
}

// UpdatePlan handles PUT /v1/admin/plans/:id
func (h *PlanHandler) UpdatePlan(c *fiber.Ctx) error {
	var plan domain.Plan
	if err := c.BodyParser(&plan); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	plan.ID = c.Params("id")
	if err := plan.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	if err := h.planRepo.Update(c.UserContext(), &plan); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "plan not found",
			})
		}
		log.Printf("[Plans] Failed to update plan: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to update plan",
		})
	}

	_ = h.cache.InvalidatePlanAvailability(c.UserContext(), plan.ID)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    plan,
	})
}

// DeletePlan handles DELETE /v1/admin/plans/:id
func (h *PlanHandler) DeletePlan(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.planRepo.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "plan not found",
			})
		}
		log.Printf("[Plans] Failed to delete plan: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete plan",
		})
	}

	_ = h.cache.InvalidatePlanAvailability(c.UserContext(), id)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "deleted",
	})
}

// --- Admin accommodation CRUD ---

// ListAccommodations handles GET /v1/admin/accommodations
func (h *PlanHandler) ListAccommodations(c *fiber.Ctx) error {
	accommodations, err := h.accommodationRepo.GetAll(c.UserContext())
	if err != nil {
		log.Printf("[Plans] Failed to list accommodations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch accommodations",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    accommodations,
	})
}

// CreateAccommodation handles POST /v1/admin/accommodations
func (h *PlanHandler) CreateAccommodation(c *fiber.Ctx) error {
	var acc domain.Accommodation
	if err := c.BodyParser(&acc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if acc.Name == "" || (acc.Kind != domain.AccommodationCabin && acc.Kind != domain.AccommodationCamping) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "name is required and kind must be cabin or camping",
		})
	}

	if err := h.accommodationRepo.Create(c.UserContext(), &acc); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   "an accommodation with that name already exists",
			})
		}
		log.Printf("[Plans] Failed to create accommodation: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to create accommodation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    acc,
	})
}

// UpdateAccommodation handles PUT /v1/admin/accommodations/:id
func (h *PlanHandler) UpdateAccommodation(c *fiber.Ctx) error {
	var acc domain.Accommodation
	if err := c.BodyParser(&acc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	acc.ID = c.Params("id")

	if err := h.accommodationRepo.Update(c.UserContext(), &acc); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "accommodation not found",
			})
		}
		log.Printf("[Plans] Failed to update accommodation: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to update accommodation",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    acc,
	})
}

// DeleteAccommodation handles DELETE /v1/admin/accommodations/:id
func (h *PlanHandler) DeleteAccommodation(c *fiber.Ctx) error {
	if err := h.accommodationRepo.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "accommodation not found",
			})
		}
		log.Printf("[Plans] Failed to delete accommodation: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete accommodation",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "deleted",
	})
}
