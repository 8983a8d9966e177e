package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/repository"
)

// ReservationHandler handles the admin reservation endpoints
type ReservationHandler struct {
	reservationRepo domain.ReservationRepository
	cache           *repository.RedisCacheRepository
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationRepo domain.ReservationRepository, cache *repository.RedisCacheRepository) *ReservationHandler {
	return &ReservationHandler{
		reservationRepo: reservationRepo,
		cache:           cache,
	}
}

// List handles GET /v1/admin/reservations
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	var (
		reservations []*domain.Reservation
		err          error
	)
	if planID := c.Query("plan_id"); planID != "" {
		reservations, err = h.reservationRepo.GetByPlan(c.UserContext(), planID)
	} else {
		reservations, err = h.reservationRepo.GetAll(c.UserContext())
	}
	if err != nil {
		log.Printf("[Reservations] Failed to list: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch reservations",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    reservations,
	})
}

// Get handles GET /v1/admin/reservations/:id
func (h *ReservationHandler) Get(c *fiber.Ctx) error {
	reservation, err := h.reservationRepo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "reservation not found",
			})
		}
		log.Printf("[Reservations] Failed to fetch: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch reservation",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    reservation,
	})
}

// Cancel handles POST /v1/admin/reservations/:id/cancel
// Cancelling frees the reserved dates for new bookings.
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")

	reservation, err := h.reservationRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "reservation not found",
			})
		}
		log.Printf("[Reservations] Failed to fetch: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch reservation",
		})
	}

	if reservation.Status == domain.ReservationStatusCancelled {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "already cancelled",
		})
	}

	if err := h.reservationRepo.UpdateStatus(c.UserContext(), id, domain.ReservationStatusCancelled); err != nil {
		log.Printf("[Reservations] Failed to cancel: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to cancel reservation",
		})
	}

	_ = h.cache.InvalidatePlanAvailability(c.UserContext(), reservation.PlanID)

	log.Printf("[Reservations] Cancelled %s (plan %s)", reservation.Reference, reservation.PlanID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "cancelled",
	})
}

// Delete handles DELETE /v1/admin/reservations/:id
func (h *ReservationHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	reservation, err := h.reservationRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "reservation not found",
			})
		}
		log.Printf("[Reservations] Failed to fetch: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch reservation",
		})
	}

	if err := h.reservationRepo.Delete(c.UserContext(), id); err != nil {
		log.Printf("[Reservations] Failed to delete: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete reservation",
		})
	}

	_ = h.cache.InvalidatePlanAvailability(c.UserContext(), reservation.PlanID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "deleted",
	})
}
