package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/repository"
	"github.com/vivotour/vivotour/internal/service"
)

// BookingHandler handles quote and booking endpoints
type BookingHandler struct {
	bookingService *service.BookingService
	cache          *repository.RedisCacheRepository
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *service.BookingService, cache *repository.RedisCacheRepository) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		cache:          cache,
	}
}

type bookingRequestBody struct {
	PlanID    string              `json:"plan_id"`
	Start     string              `json:"start"`
	End       string              `json:"end"`
	Adults    int                 `json:"adults"`
	Children  int                 `json:"children"`
	AddonKeys []string            `json:"addon_keys"`
	ExtraKeys []string            `json:"extra_keys"`
	Guest     domain.GuestContact `json:"guest"`
}

func (b bookingRequestBody) toRequest() (service.BookingRequest, error) {
	dr, err := domain.ParseDateRange(b.Start, b.End)
	if err != nil {
		return service.BookingRequest{}, err
	}
	return service.BookingRequest{
		PlanID:    b.PlanID,
		Range:     dr,
		Adults:    b.Adults,
		Children:  b.Children,
		AddonKeys: b.AddonKeys,
		ExtraKeys: b.ExtraKeys,
		Guest:     b.Guest,
	}, nil
}

// Quote handles POST /v1/bookings/quote
// Prices the stay and confirms availability without persisting anything.
func (h *BookingHandler) Quote(c *fiber.Ctx) error {
	var body bookingRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	req, err := body.toRequest()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "start and end must be valid dates (YYYY-MM-DD) with start <= end",
		})
	}

	draft, err := h.bookingService.Quote(c.UserContext(), req)
	if err != nil {
		return h.bookingError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    draft,
	})
}

// Book handles POST /v1/bookings
// Persists a pending reservation. Retries with the same X-Correlation-ID are
// absorbed by the idempotency middleware.
func (h *BookingHandler) Book(c *fiber.Ctx) error {
	var body bookingRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	if body.Guest.Name == "" || body.Guest.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "guest name and email are required",
		})
	}

	req, err := body.toRequest()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "start and end must be valid dates (YYYY-MM-DD) with start <= end",
		})
	}

	reservation, err := h.bookingService.Book(c.UserContext(), req)
	if err != nil {
		return h.bookingError(c, err)
	}

	_ = h.cache.InvalidatePlanAvailability(c.UserContext(), reservation.PlanID)

	log.Printf("[Booking] Created reservation %s (plan %s, %s)",
		reservation.Reference, reservation.PlanID, reservation.Range)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    reservation,
	})
}

// bookingError maps domain errors from the quote/book pipeline onto HTTP
// statuses. Unavailability is a conflict, not a server failure.
func (h *BookingHandler) bookingError(c *fiber.Ctx, err error) error {
	var unavailable *domain.UnavailableError
	if errors.As(err, &unavailable) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   unavailable.Reason,
		})
	}

	var capErr *domain.CapacityError
	if errors.As(err, &capErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   capErr.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrUnknownAddon):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidID):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	log.Printf("[Booking] Unexpected error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "booking could not be processed",
	})
}
