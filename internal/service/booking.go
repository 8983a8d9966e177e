package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/vivotour/vivotour/internal/domain"
)

// BookingRequest carries one booking attempt from the HTTP layer
type BookingRequest struct {
	PlanID    string
	Range     domain.DateRange
	Adults    int
	Children  int
	AddonKeys []string
	ExtraKeys []string
	Guest     domain.GuestContact
}

// BookingDraft is a priced, confirmed-available booking ready for
// persistence and payment.
type BookingDraft struct {
	Plan      *domain.Plan           `json:"plan"`
	Range     domain.DateRange       `json:"range"`
	Adults    int                    `json:"adults"`
	Children  int                    `json:"children"`
	Lines     []domain.AddonLine     `json:"lines"`
	Breakdown *domain.PriceBreakdown `json:"breakdown"`
	Summary   string                 `json:"summary"`
}

// BookingService orchestrates availability checking and pricing, and
// persists confirmed-available reservations.
type BookingService struct {
	planRepo        domain.PlanRepository
	extraRepo       domain.ExtraServiceRepository
	reservationRepo domain.ReservationRepository
	availability    *AvailabilityChecker

	// Per-accommodation locks close the gap between the availability
	// check and the reservation insert. Two concurrent bookings for the
	// same accommodation serialize here; the second re-checks overlap
	// inside the critical section and fails.
	accommodationLocks sync.Map // accommodationID -> *sync.Mutex
}

// NewBookingService creates a new booking service
func NewBookingService(
	planRepo domain.PlanRepository,
	extraRepo domain.ExtraServiceRepository,
	reservationRepo domain.ReservationRepository,
	availability *AvailabilityChecker,
) *BookingService {
	return &BookingService{
		planRepo:        planRepo,
		extraRepo:       extraRepo,
		reservationRepo: reservationRepo,
		availability:    availability,
	}
}

// Quote validates the request, checks availability, and prices the stay
// without persisting anything.
func (s *BookingService) Quote(ctx context.Context, req BookingRequest) (*BookingDraft, error) {
	plan, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	if err := s.validateRange(plan, req.Range); err != nil {
		return nil, err
	}

	result, err := s.availability.CheckPlan(ctx, plan, req.Range)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		return nil, &domain.UnavailableError{Reason: result.Reason}
	}

	extras, err := s.resolveExtras(ctx, req.ExtraKeys)
	if err != nil {
		return nil, err
	}

	breakdown, err := domain.ComputeTotal(plan, req.Adults, req.Children, req.AddonKeys, extras)
	if err != nil {
		return nil, err
	}

	return &BookingDraft{
		Plan:      plan,
		Range:     req.Range,
		Adults:    req.Adults,
		Children:  req.Children,
		Lines:     breakdown.Lines,
		Breakdown: breakdown,
		Summary:   buildSummary(plan, req, breakdown),
	}, nil
}

// Book produces a quote and persists the reservation. For plans bound to an
// accommodation the overlap re-check and the insert run under a lock keyed
// by accommodation id, so two racing customers cannot both pass the
// availability check and double-book the same dates.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*domain.Reservation, error) {
	draft, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	if accID := draft.Plan.AccommodationID; accID != "" {
		mu := s.lockFor(accID)
		mu.Lock()
		defer mu.Unlock()

		conflicts, err := s.reservationRepo.FindOverlapping(ctx, accID, req.Range)
		if err != nil {
			return nil, fmt.Errorf("failed to re-check reservations: %w", err)
		}
		if len(conflicts) > 0 {
			return nil, &domain.UnavailableError{Reason: domain.ReasonReserved}
		}
	}

	reservation := &domain.Reservation{
		Reference:       ulid.Make().String(),
		PlanID:          draft.Plan.ID,
		AccommodationID: draft.Plan.AccommodationID,
		Range:           req.Range,
		Adults:          req.Adults,
		Children:        req.Children,
		Guest:           req.Guest,
		AddonLines:      draft.Lines,
		Summary:         draft.Summary,
		Quote:           *draft.Breakdown,
		Status:          domain.ReservationStatusPending,
	}

	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	return reservation, nil
}

// validateRange applies the booking-time rules: the stay may not start in
// the past, multi-night plans need at least one night, and fixed-length
// plans must match their night count exactly.
func (s *BookingService) validateRange(plan *domain.Plan, r domain.DateRange) error {
	if r.Start.Before(domain.Today()) {
		return fmt.Errorf("%w: stay cannot start in the past", domain.ErrInvalidRange)
	}
	if plan.AccommodationID != "" && r.Nights() < 1 {
		return fmt.Errorf("%w: overnight plans need at least one night", domain.ErrInvalidRange)
	}
	if plan.FixedNights > 0 && r.Nights() != plan.FixedNights {
		return fmt.Errorf("%w: plan requires exactly %d nights", domain.ErrInvalidRange, plan.FixedNights)
	}
	return nil
}

func (s *BookingService) resolveExtras(ctx context.Context, keys []string) ([]*domain.ExtraService, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	extras, err := s.extraRepo.GetByKeys(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to load extra services: %w", err)
	}
	if len(extras) != len(keys) {
		found := make(map[string]bool, len(extras))
		for _, e := range extras {
			found[e.Key] = true
		}
		for _, key := range keys {
			if !found[key] {
				return nil, fmt.Errorf("%w: unknown extra service %s", domain.ErrNotFound, key)
			}
		}
	}
	return extras, nil
}

func (s *BookingService) lockFor(accommodationID string) *sync.Mutex {
	mu, _ := s.accommodationLocks.LoadOrStore(accommodationID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// buildSummary renders the persisted free-text description of the booking,
// shown on the admin dashboard and the receipt.
func buildSummary(plan *domain.Plan, req BookingRequest, bd *domain.PriceBreakdown) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s | %d adultos, %d niños", plan.Title, req.Range, req.Adults, req.Children)
	for _, line := range bd.Lines {
		fmt.Fprintf(&b, " | %s x%d = %d", line.Label, line.Persons, line.LineTotal)
	}
	fmt.Fprintf(&b, " | Seguro %d | Total %d COP", bd.Insurance, bd.Total)
	return b.String()
}
