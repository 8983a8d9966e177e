package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vivotour/vivotour/internal/domain"
)

func newBookingService(planRepo *fakePlanRepo, extraRepo *fakeExtraRepo, resRepo *fakeReservationRepo, blackoutRepo *fakeBlackoutRepo) *BookingService {
	checker := NewAvailabilityChecker(planRepo, resRepo, blackoutRepo)
	return NewBookingService(planRepo, extraRepo, resRepo, checker)
}

func perPersonPlan() *domain.Plan {
	return &domain.Plan{
		ID:        "plan_aventura",
		Title:     "Aventura en la montaña",
		Price:     200000,
		PriceType: domain.PriceTypePerPerson,
		Capacity:  domain.Capacity{Min: 1, Max: 10},
		Addons: []domain.Addon{
			{Key: "mula", Label: "Mula de salida", PricePerPerson: 30000},
		},
		AccommodationID: "acc_montana",
		IsActive:        true,
	}
}

func TestBookingQuote_HappyPath(t *testing.T) {
	plan := perPersonPlan()
	extras := newFakeExtraRepo(&domain.ExtraService{
		ID: "ext_1", Key: "fotografia", Label: "Fotografía", Price: 85000, IsActive: true,
	})
	svc := newBookingService(newFakePlanRepo(plan), extras, &fakeReservationRepo{}, &fakeBlackoutRepo{})

	draft, err := svc.Quote(context.Background(), BookingRequest{
		PlanID:    plan.ID,
		Range:     mkRange(t, "2027-01-10", "2027-01-12"),
		Adults:    3,
		Children:  1,
		AddonKeys: []string{"mula"},
		ExtraKeys: []string{"fotografia"},
	})
	require.NoError(t, err)

	// 4 people x 200000 base, 4 x 30000 mule, flat 85000 photography.
	assert.Equal(t, int64(800000), draft.Breakdown.PlanBase)
	assert.Equal(t, int64(205000), draft.Breakdown.AddonsTotal)
	assert.Equal(t, int64(1005000), draft.Breakdown.Subtotal)
	assert.Equal(t, int64(100500), draft.Breakdown.Insurance)
	assert.Equal(t, int64(1105500), draft.Breakdown.Total)

	assert.Contains(t, draft.Summary, "Aventura en la montaña")
	assert.Contains(t, draft.Summary, "3 adultos, 1 niños")
	assert.Contains(t, draft.Summary, "Mula de salida x4 = 120000")
	assert.Contains(t, draft.Summary, "Fotografía x1 = 85000")
	assert.Contains(t, draft.Summary, "Total 1105500 COP")
}

func TestBookingQuote_Unavailable(t *testing.T) {
	plan := perPersonPlan()
	resRepo := &fakeReservationRepo{reservations: []*domain.Reservation{{
		ID:              "res_1",
		AccommodationID: plan.AccommodationID,
		Range:           mkRange(t, "2027-01-11", "2027-01-13"),
		Status:          domain.ReservationStatusPending,
	}}}
	svc := newBookingService(newFakePlanRepo(plan), newFakeExtraRepo(), resRepo, &fakeBlackoutRepo{})

	_, err := svc.Quote(context.Background(), BookingRequest{
		PlanID: plan.ID,
		Range:  mkRange(t, "2027-01-10", "2027-01-12"),
		Adults: 2,
	})

	var unavailable *domain.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, domain.ReasonReserved, unavailable.Reason)
}

func TestBookingQuote_CapacityErrorPropagates(t *testing.T) {
	plan := cabinPlan() // capacity exactly 2
	svc := newBookingService(newFakePlanRepo(plan), newFakeExtraRepo(), &fakeReservationRepo{}, &fakeBlackoutRepo{})

	_, err := svc.Quote(context.Background(), BookingRequest{
		PlanID: plan.ID,
		Range:  mkRange(t, "2027-01-10", "2027-01-12"),
		Adults: 3,
	})

	var capErr *domain.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "max", capErr.Bound)
}

func TestBookingQuote_RangeValidation(t *testing.T) {
	plan := perPersonPlan()
	svc := newBookingService(newFakePlanRepo(plan), newFakeExtraRepo(), &fakeReservationRepo{}, &fakeBlackoutRepo{})

	t.Run("past start date", func(t *testing.T) {
		_, err := svc.Quote(context.Background(), BookingRequest{
			PlanID: plan.ID,
			Range:  mkRange(t, "2020-01-10", "2020-01-12"),
			Adults: 2,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	})

	t.Run("zero nights on overnight plan", func(t *testing.T) {
		_, err := svc.Quote(context.Background(), BookingRequest{
			PlanID: plan.ID,
			Range:  mkRange(t, "2027-01-10", "2027-01-10"),
			Adults: 2,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	})

	t.Run("fixed nights mismatch", func(t *testing.T) {
		fixed := perPersonPlan()
		fixed.ID = "plan_fixed"
		fixed.FixedNights = 2
		fixedSvc := newBookingService(newFakePlanRepo(fixed), newFakeExtraRepo(), &fakeReservationRepo{}, &fakeBlackoutRepo{})

		_, err := fixedSvc.Quote(context.Background(), BookingRequest{
			PlanID: fixed.ID,
			Range:  mkRange(t, "2027-01-10", "2027-01-13"),
			Adults: 2,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	})
}

func TestBookingQuote_UnknownExtra(t *testing.T) {
	plan := perPersonPlan()
	svc := newBookingService(newFakePlanRepo(plan), newFakeExtraRepo(), &fakeReservationRepo{}, &fakeBlackoutRepo{})

	_, err := svc.Quote(context.Background(), BookingRequest{
		PlanID:    plan.ID,
		Range:     mkRange(t, "2027-01-10", "2027-01-12"),
		Adults:    2,
		ExtraKeys: []string{"helicoptero"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBook_PersistsPendingReservation(t *testing.T) {
	plan := perPersonPlan()
	resRepo := &fakeReservationRepo{}
	svc := newBookingService(newFakePlanRepo(plan), newFakeExtraRepo(), resRepo, &fakeBlackoutRepo{})

	reservation, err := svc.Book(context.Background(), BookingRequest{
		PlanID:   plan.ID,
		Range:    mkRange(t, "2027-01-10", "2027-01-12"),
		Adults:   2,
		Children: 0,
		Guest:    domain.GuestContact{Name: "Laura Gómez", Email: "laura@example.com", Phone: "3001234567"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, reservation.ID)
	assert.NotEmpty(t, reservation.Reference)
	assert.Equal(t, domain.ReservationStatusPending, reservation.Status)
	assert.Equal(t, plan.AccommodationID, reservation.AccommodationID)
	assert.Equal(t, int64(440000), reservation.Quote.Total)
	assert.Equal(t, "Laura Gómez", reservation.Guest.Name)
	require.Len(t, resRepo.reservations, 1)
}

func TestBook_SecondOverlappingBookingRejected(t *testing.T) {
	plan := perPersonPlan()
	resRepo := &fakeReservationRepo{}
	svc := newBookingService(newFakePlanRepo(plan), newFakeExtraRepo(), resRepo, &fakeBlackoutRepo{})

	req := BookingRequest{
		PlanID: plan.ID,
		Range:  mkRange(t, "2027-01-10", "2027-01-12"),
		Adults: 2,
	}

	_, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), req)
	var unavailable *domain.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, domain.ReasonReserved, unavailable.Reason)
	assert.Len(t, resRepo.reservations, 1)
}

func TestBook_DistinctReferences(t *testing.T) {
	plan := perPersonPlan()
	resRepo := &fakeReservationRepo{}
	svc := newBookingService(newFakePlanRepo(plan), newFakeExtraRepo(), resRepo, &fakeBlackoutRepo{})

	first, err := svc.Book(context.Background(), BookingRequest{
		PlanID: plan.ID,
		Range:  mkRange(t, "2027-01-10", "2027-01-12"),
		Adults: 2,
	})
	require.NoError(t, err)

	second, err := svc.Book(context.Background(), BookingRequest{
		PlanID: plan.ID,
		Range:  mkRange(t, "2027-02-10", "2027-02-12"),
		Adults: 2,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Reference, second.Reference)
}
