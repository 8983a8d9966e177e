package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vivotour/vivotour/internal/domain"
)

func mkRange(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	r, err := domain.ParseDateRange(start, end)
	require.NoError(t, err)
	return r
}

func cabinPlan() *domain.Plan {
	return &domain.Plan{
		ID:              "plan_fenix",
		Title:           "Cabaña Fénix",
		Price:           600000,
		PriceType:       domain.PriceTypePerCouple,
		Capacity:        domain.Capacity{Min: 2, Max: 2},
		AccommodationID: "acc_fenix",
		IsActive:        true,
	}
}

func TestAvailability_NoConflicts(t *testing.T) {
	plan := cabinPlan()
	checker := NewAvailabilityChecker(newFakePlanRepo(plan), &fakeReservationRepo{}, &fakeBlackoutRepo{})

	result, err := checker.Check(context.Background(), plan.ID, mkRange(t, "2027-01-10", "2027-01-12"))
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Empty(t, result.Reason)
}

func TestAvailability_ReservationConflict(t *testing.T) {
	plan := cabinPlan()
	resRepo := &fakeReservationRepo{reservations: []*domain.Reservation{{
		ID:              "res_1",
		AccommodationID: plan.AccommodationID,
		Range:           mkRange(t, "2027-01-11", "2027-01-14"),
		Status:          domain.ReservationStatusConfirmed,
	}}}
	checker := NewAvailabilityChecker(newFakePlanRepo(plan), resRepo, &fakeBlackoutRepo{})

	result, err := checker.Check(context.Background(), plan.ID, mkRange(t, "2027-01-10", "2027-01-12"))
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, domain.ReasonReserved, result.Reason)
}

func TestAvailability_ReservationWinsOverBlackout(t *testing.T) {
	// When both a reservation and a blackout cover the requested range the
	// reservation reason is reported.
	plan := cabinPlan()
	resRepo := &fakeReservationRepo{reservations: []*domain.Reservation{{
		ID:              "res_1",
		AccommodationID: plan.AccommodationID,
		Range:           mkRange(t, "2027-01-10", "2027-01-12"),
		Status:          domain.ReservationStatusPending,
	}}}
	blackoutRepo := &fakeBlackoutRepo{periods: []*domain.BlackoutPeriod{{
		ID:     "blk_1",
		PlanID: plan.ID,
		Range:  mkRange(t, "2027-01-01", "2027-01-31"),
		Reason: "Mantenimiento",
	}}}
	checker := NewAvailabilityChecker(newFakePlanRepo(plan), resRepo, blackoutRepo)

	result, err := checker.Check(context.Background(), plan.ID, mkRange(t, "2027-01-10", "2027-01-12"))
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, domain.ReasonReserved, result.Reason)
}

func TestAvailability_BlackoutReason(t *testing.T) {
	plan := cabinPlan()
	blackoutRepo := &fakeBlackoutRepo{periods: []*domain.BlackoutPeriod{{
		ID:     "blk_1",
		PlanID: plan.ID,
		Range:  mkRange(t, "2027-02-01", "2027-02-15"),
		Reason: "Mantenimiento anual",
	}}}
	checker := NewAvailabilityChecker(newFakePlanRepo(plan), &fakeReservationRepo{}, blackoutRepo)

	result, err := checker.Check(context.Background(), plan.ID, mkRange(t, "2027-02-10", "2027-02-12"))
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "Mantenimiento anual", result.Reason)
}

func TestAvailability_BlackoutDefaultReason(t *testing.T) {
	plan := cabinPlan()
	blackoutRepo := &fakeBlackoutRepo{periods: []*domain.BlackoutPeriod{{
		ID:     "blk_1",
		PlanID: plan.ID,
		Range:  mkRange(t, "2027-02-01", "2027-02-15"),
	}}}
	checker := NewAvailabilityChecker(newFakePlanRepo(plan), &fakeReservationRepo{}, blackoutRepo)

	result, err := checker.Check(context.Background(), plan.ID, mkRange(t, "2027-02-10", "2027-02-12"))
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, domain.ReasonUnavailable, result.Reason)
}

func TestAvailability_CancelledReservationDoesNotBlock(t *testing.T) {
	plan := cabinPlan()
	resRepo := &fakeReservationRepo{reservations: []*domain.Reservation{{
		ID:              "res_1",
		AccommodationID: plan.AccommodationID,
		Range:           mkRange(t, "2027-01-10", "2027-01-12"),
		Status:          domain.ReservationStatusCancelled,
	}}}
	checker := NewAvailabilityChecker(newFakePlanRepo(plan), resRepo, &fakeBlackoutRepo{})

	result, err := checker.Check(context.Background(), plan.ID, mkRange(t, "2027-01-10", "2027-01-12"))
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestAvailability_NoAccommodationAlwaysAvailable(t *testing.T) {
	// Day-visit plans have no physical unit to conflict over.
	plan := &domain.Plan{
		ID:        "plan_pasadia",
		Title:     "Pasadía familiar",
		Price:     200000,
		PriceType: domain.PriceTypePerPerson,
		Capacity:  domain.Capacity{Min: 1, Max: 20},
		IsActive:  true,
	}
	blackoutRepo := &fakeBlackoutRepo{periods: []*domain.BlackoutPeriod{{
		ID:     "blk_1",
		PlanID: plan.ID,
		Range:  mkRange(t, "2027-03-01", "2027-03-31"),
	}}}
	checker := NewAvailabilityChecker(newFakePlanRepo(plan), &fakeReservationRepo{}, blackoutRepo)

	result, err := checker.Check(context.Background(), plan.ID, mkRange(t, "2027-03-10", "2027-03-10"))
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestAvailability_FailsClosedOnStoreError(t *testing.T) {
	plan := cabinPlan()

	t.Run("reservation store down", func(t *testing.T) {
		checker := NewAvailabilityChecker(newFakePlanRepo(plan), &fakeReservationRepo{failFind: true}, &fakeBlackoutRepo{})
		result, err := checker.Check(context.Background(), plan.ID, mkRange(t, "2027-01-10", "2027-01-12"))
		assert.ErrorIs(t, err, errStoreDown)
		assert.Nil(t, result)
	})

	t.Run("blackout store down", func(t *testing.T) {
		checker := NewAvailabilityChecker(newFakePlanRepo(plan), &fakeReservationRepo{}, &fakeBlackoutRepo{failFind: true})
		result, err := checker.Check(context.Background(), plan.ID, mkRange(t, "2027-01-10", "2027-01-12"))
		assert.ErrorIs(t, err, errStoreDown)
		assert.Nil(t, result)
	})
}

func TestAvailability_UnknownPlan(t *testing.T) {
	checker := NewAvailabilityChecker(newFakePlanRepo(), &fakeReservationRepo{}, &fakeBlackoutRepo{})
	_, err := checker.Check(context.Background(), "missing", mkRange(t, "2027-01-10", "2027-01-12"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAvailability_Calendar(t *testing.T) {
	plan := cabinPlan()
	resRepo := &fakeReservationRepo{reservations: []*domain.Reservation{{
		ID:              "res_1",
		AccommodationID: plan.AccommodationID,
		Range:           mkRange(t, "2027-01-05", "2027-01-07"),
		Status:          domain.ReservationStatusConfirmed,
	}}}
	blackoutRepo := &fakeBlackoutRepo{periods: []*domain.BlackoutPeriod{
		{ID: "blk_1", PlanID: plan.ID, Range: mkRange(t, "2027-01-20", "2027-01-25"), Reason: "Mantenimiento"},
		{ID: "blk_2", PlanID: plan.ID, Range: mkRange(t, "2027-06-01", "2027-06-05")}, // outside window
	}}
	checker := NewAvailabilityChecker(newFakePlanRepo(plan), resRepo, blackoutRepo)

	blocked, err := checker.Calendar(context.Background(), plan.ID, mkRange(t, "2027-01-01", "2027-01-31"))
	require.NoError(t, err)
	require.Len(t, blocked, 2)
	assert.Equal(t, domain.ReasonReserved, blocked[0].Reason)
	assert.Equal(t, "Mantenimiento", blocked[1].Reason)
}
