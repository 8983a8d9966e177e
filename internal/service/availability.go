package service

import (
	"context"
	"fmt"

	"github.com/vivotour/vivotour/internal/domain"
)

// AvailabilityChecker decides whether a plan is bookable for a requested
// date range, checking existing reservations before blackout periods.
type AvailabilityChecker struct {
	planRepo        domain.PlanRepository
	reservationRepo domain.ReservationRepository
	blackoutRepo    domain.BlackoutRepository
}

// NewAvailabilityChecker creates a new availability checker
func NewAvailabilityChecker(
	planRepo domain.PlanRepository,
	reservationRepo domain.ReservationRepository,
	blackoutRepo domain.BlackoutRepository,
) *AvailabilityChecker {
	return &AvailabilityChecker{
		planRepo:        planRepo,
		reservationRepo: reservationRepo,
		blackoutRepo:    blackoutRepo,
	}
}

// Check determines whether the plan is bookable for the requested range.
//
// A plan with no accommodation has no physical resource to conflict over and
// is always available. Otherwise reservation conflicts are checked first and
// always win over blackout conflicts: the reservation query runs to
// completion before blackouts are consulted, and its result is never
// overwritten by a blackout reason.
//
// Store failures propagate as errors (fail closed). Availability is never
// assumed when a lookup cannot complete.
func (s *AvailabilityChecker) Check(ctx context.Context, planID string, requested domain.DateRange) (*domain.AvailabilityResult, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}

	return s.CheckPlan(ctx, plan, requested)
}

// CheckPlan is Check for a plan that has already been loaded
func (s *AvailabilityChecker) CheckPlan(ctx context.Context, plan *domain.Plan, requested domain.DateRange) (*domain.AvailabilityResult, error) {
	if plan.AccommodationID == "" {
		return &domain.AvailabilityResult{Available: true}, nil
	}

	conflicts, err := s.reservationRepo.FindOverlapping(ctx, plan.AccommodationID, requested)
	if err != nil {
		return nil, fmt.Errorf("failed to check reservations: %w", err)
	}
	if len(conflicts) > 0 {
		return &domain.AvailabilityResult{Available: false, Reason: domain.ReasonReserved}, nil
	}

	periods, err := s.blackoutRepo.FindByPlan(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blackout periods: %w", err)
	}
	for _, period := range periods {
		if period.Range.Overlaps(requested) {
			reason := period.Reason
			if reason == "" {
				reason = domain.ReasonUnavailable
			}
			return &domain.AvailabilityResult{Available: false, Reason: reason}, nil
		}
	}

	return &domain.AvailabilityResult{Available: true}, nil
}

// Calendar returns the blocked sub-ranges of a window, for the booking
// page's date picker. Reservation conflicts keep their precedence over
// blackout periods when both cover a range.
func (s *AvailabilityChecker) Calendar(ctx context.Context, planID string, window domain.DateRange) ([]BlockedRange, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}

	var blocked []BlockedRange

	if plan.AccommodationID != "" {
		reservations, err := s.reservationRepo.FindOverlapping(ctx, plan.AccommodationID, window)
		if err != nil {
			return nil, fmt.Errorf("failed to load reservations: %w", err)
		}
		for _, res := range reservations {
			blocked = append(blocked, BlockedRange{Range: res.Range, Reason: domain.ReasonReserved})
		}
	}

	periods, err := s.blackoutRepo.FindByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load blackout periods: %w", err)
	}
	for _, period := range periods {
		if !period.Range.Overlaps(window) {
			continue
		}
		reason := period.Reason
		if reason == "" {
			reason = domain.ReasonUnavailable
		}
		blocked = append(blocked, BlockedRange{Range: period.Range, Reason: reason})
	}

	return blocked, nil
}

// BlockedRange is one unavailable stretch in an availability calendar
type BlockedRange struct {
	Range  domain.DateRange `json:"range"`
	Reason string           `json:"reason"`
}
