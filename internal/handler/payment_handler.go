package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/infrastructure/epayco"
	"github.com/vivotour/vivotour/internal/repository"
	"github.com/vivotour/vivotour/internal/service"
)

// PaymentHandler handles checkout sessions and gateway webhooks
type PaymentHandler struct {
	reservationRepo domain.ReservationRepository
	paymentProvider service.PaymentProvider
	cache           *repository.RedisCacheRepository
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	reservationRepo domain.ReservationRepository,
	paymentProvider service.PaymentProvider,
	cache *repository.RedisCacheRepository,
) *PaymentHandler {
	return &PaymentHandler{
		reservationRepo: reservationRepo,
		paymentProvider: paymentProvider,
		cache:           cache,
	}
}

type checkoutRequest struct {
	Reference string `json:"reference"` // reservation reference from POST /v1/bookings
}

// Checkout handles POST /v1/payments/checkout
// Opens a hosted checkout session for a pending reservation.
func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil || req.Reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "reference is required",
		})
	}

	reservation, err := h.reservationRepo.GetByReference(c.UserContext(), req.Reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "reservation not found",
			})
		}
		log.Printf("[Payments] Failed to fetch reservation: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch reservation",
		})
	}

	switch reservation.Status {
	case domain.ReservationStatusConfirmed:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "reservation is already paid",
		})
	case domain.ReservationStatusCancelled:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "reservation is cancelled",
		})
	}

	session, err := h.paymentProvider.CreateSession(c.UserContext(),
		reservation.Reference, reservation.Quote.Total, reservation.Guest.Email)
	if err != nil {
		log.Printf("[Payments] Failed to create session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "payment service unavailable, please try again later",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"session_id":   session.SessionID,
			"checkout_url": session.CheckoutURL,
			"expires_at":   session.ExpiresAt,
			"amount":       reservation.Quote.Total,
		},
	})
}

// EpaycoWebhook handles POST /v1/payments/webhook/epayco
// This is a public endpoint - authenticity comes from the signature.
func (h *PaymentHandler) EpaycoWebhook(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var n epayco.Notification
	if err := c.BodyParser(&n); err != nil {
		log.Printf("[Webhook] Failed to parse body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	log.Printf("[Webhook] Received confirmation: ref_payco=%s, invoice=%s, state=%s, amount=%d",
		n.RefPayco, n.Reference, n.TransactionState, n.Amount)

	if !h.paymentProvider.VerifyNotification(n) {
		log.Printf("[Webhook] Signature verification failed for invoice=%s", n.Reference)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "invalid signature",
		})
	}

	reservation, err := h.reservationRepo.GetByReference(ctx, n.Reference)
	if err != nil {
		log.Printf("[Webhook] Reservation not found for invoice=%s: %v", n.Reference, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "reservation not found",
		})
	}

	// Only captured payments flip the reservation
	if !n.Approved() {
		log.Printf("[Webhook] Payment not approved: state=%s, invoice=%s", n.TransactionState, n.Reference)
		return c.JSON(fiber.Map{
			"success": true,
			"message": "status acknowledged",
		})
	}

	// Prevent duplicate processing
	if reservation.Status == domain.ReservationStatusConfirmed {
		log.Printf("[Webhook] Reservation already confirmed: %s", reservation.Reference)
		return c.JSON(fiber.Map{
			"success": true,
			"message": "already processed",
		})
	}

	if n.Amount != reservation.Quote.Total {
		log.Printf("[Webhook] Amount mismatch for %s: got %d, expected %d",
			n.Reference, n.Amount, reservation.Quote.Total)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "amount mismatch",
		})
	}

	if err := h.reservationRepo.RecordPayment(ctx, n.Reference, n.Amount, n.RefPayco); err != nil {
		log.Printf("[Webhook] Failed to record payment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to record payment",
		})
	}

	_ = h.cache.InvalidatePlanAvailability(ctx, reservation.PlanID)

	log.Printf("[Webhook] Reservation %s confirmed, paid %d COP", reservation.Reference, n.Amount)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "payment recorded",
	})
}
