package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vivotour/vivotour/internal/domain"
)

// In-memory repository fakes used by the availability and booking tests.

type fakePlanRepo struct {
	plans map[string]*domain.Plan
}

func newFakePlanRepo(plans ...*domain.Plan) *fakePlanRepo {
	r := &fakePlanRepo{plans: make(map[string]*domain.Plan)}
	for _, p := range plans {
		r.plans[p.ID] = p
	}
	return r
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *domain.Plan) error {
	r.plans[plan.ID] = plan
	return nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	if p, ok := r.plans[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakePlanRepo) GetActivePlans(ctx context.Context) ([]*domain.Plan, error) {
	var out []*domain.Plan
	for _, p := range r.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) GetAll(ctx context.Context) ([]*domain.Plan, error) {
	var out []*domain.Plan
	for _, p := range r.plans {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *domain.Plan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return domain.ErrNotFound
	}
	r.plans[plan.ID] = plan
	return nil
}

func (r *fakePlanRepo) Delete(ctx context.Context, id string) error {
	delete(r.plans, id)
	return nil
}

type fakeReservationRepo struct {
	reservations []*domain.Reservation
	failFind     bool
	nextID       int
}

var errStoreDown = errors.New("store unavailable")

func (r *fakeReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	r.nextID++
	res.ID = fmt.Sprintf("res_%d", r.nextID)
	r.reservations = append(r.reservations, res)
	return nil
}

func (r *fakeReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	for _, res := range r.reservations {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeReservationRepo) GetByReference(ctx context.Context, reference string) (*domain.Reservation, error) {
	for _, res := range r.reservations {
		if res.Reference == reference {
			return res, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeReservationRepo) FindOverlapping(ctx context.Context, accommodationID string, dr domain.DateRange) ([]*domain.Reservation, error) {
	if r.failFind {
		return nil, errStoreDown
	}
	var out []*domain.Reservation
	for _, res := range r.reservations {
		if res.AccommodationID == accommodationID && res.Blocking() && res.Range.Overlaps(dr) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) GetByPlan(ctx context.Context, planID string) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range r.reservations {
		if res.PlanID == planID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) GetAll(ctx context.Context) ([]*domain.Reservation, error) {
	return r.reservations, nil
}

func (r *fakeReservationRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	res, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	res.Status = status
	return nil
}

func (r *fakeReservationRepo) RecordPayment(ctx context.Context, reference string, amount int64, paymentRef string) error {
	res, err := r.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	res.AmountPaid = amount
	res.PaymentRef = paymentRef
	res.Status = domain.ReservationStatusConfirmed
	return nil
}

func (r *fakeReservationRepo) Delete(ctx context.Context, id string) error {
	for i, res := range r.reservations {
		if res.ID == id {
			r.reservations = append(r.reservations[:i], r.reservations[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeReservationRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	for _, res := range r.reservations {
		if res.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeReservationRepo) SumPaidAmount(ctx context.Context) (int64, error) {
	var sum int64
	for _, res := range r.reservations {
		sum += res.AmountPaid
	}
	return sum, nil
}

type fakeBlackoutRepo struct {
	periods  []*domain.BlackoutPeriod
	failFind bool
}

func (r *fakeBlackoutRepo) Create(ctx context.Context, period *domain.BlackoutPeriod) error {
	r.periods = append(r.periods, period)
	return nil
}

func (r *fakeBlackoutRepo) GetByID(ctx context.Context, id string) (*domain.BlackoutPeriod, error) {
	for _, p := range r.periods {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeBlackoutRepo) FindByPlan(ctx context.Context, planID string) ([]*domain.BlackoutPeriod, error) {
	if r.failFind {
		return nil, errStoreDown
	}
	var out []*domain.BlackoutPeriod
	for _, p := range r.periods {
		if p.PlanID == planID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeBlackoutRepo) Delete(ctx context.Context, id string) error {
	for i, p := range r.periods {
		if p.ID == id {
			r.periods = append(r.periods[:i], r.periods[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeExtraRepo struct {
	extras map[string]*domain.ExtraService
}

func newFakeExtraRepo(extras ...*domain.ExtraService) *fakeExtraRepo {
	r := &fakeExtraRepo{extras: make(map[string]*domain.ExtraService)}
	for _, e := range extras {
		r.extras[e.Key] = e
	}
	return r
}

func (r *fakeExtraRepo) Create(ctx context.Context, svc *domain.ExtraService) error {
	r.extras[svc.Key] = svc
	return nil
}

func (r *fakeExtraRepo) GetByID(ctx context.Context, id string) (*domain.ExtraService, error) {
	for _, e := range r.extras {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeExtraRepo) GetByKeys(ctx context.Context, keys []string) ([]*domain.ExtraService, error) {
	var out []*domain.ExtraService
	for _, key := range keys {
		if e, ok := r.extras[key]; ok && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExtraRepo) GetActive(ctx context.Context) ([]*domain.ExtraService, error) {
	var out []*domain.ExtraService
	for _, e := range r.extras {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExtraRepo) Update(ctx context.Context, svc *domain.ExtraService) error {
	r.extras[svc.Key] = svc
	return nil
}

func (r *fakeExtraRepo) Delete(ctx context.Context, id string) error {
	for key, e := range r.extras {
		if e.ID == id {
			delete(r.extras, key)
			return nil
		}
	}
	return domain.ErrNotFound
}
