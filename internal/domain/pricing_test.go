package domain

import (
	"errors"
	"testing"
)

func perPersonPlan(price int64, min, max int, addons ...Addon) *Plan {
	return &Plan{
		ID:        "plan_rio",
		Title:     "Pasadía Río",
		Price:     price,
		PriceType: PriceTypePerPerson,
		Capacity:  Capacity{Min: min, Max: max},
		Addons:    addons,
		IsActive:  true,
	}
}

func TestComputeTotalPerPerson(t *testing.T) {
	plan := perPersonPlan(200000, 1, 10)

	bd, err := ComputeTotal(plan, 1, 0, nil, nil)
	if err != nil {
		t.Fatalf("ComputeTotal failed: %v", err)
	}
	if bd.PlanBase != 200000 {
		t.Errorf("PlanBase = %d, want 200000", bd.PlanBase)
	}
	if bd.Insurance != 20000 {
		t.Errorf("Insurance = %d, want 20000", bd.Insurance)
	}
	if bd.Total != 220000 {
		t.Errorf("Total = %d, want 220000", bd.Total)
	}
}

func TestComputeTotalPerCouple(t *testing.T) {
	plan := &Plan{
		ID:        "plan_romantico",
		Title:     "Plan Romántico",
		Price:     600000,
		PriceType: PriceTypePerCouple,
		Capacity:  Capacity{Min: 2, Max: 6},
	}

	// 3 people round up to 2 couples
	bd, err := ComputeTotal(plan, 2, 1, nil, nil)
	if err != nil {
		t.Fatalf("ComputeTotal failed: %v", err)
	}
	if bd.PlanBase != 1200000 {
		t.Errorf("PlanBase = %d, want 1200000 (2 couples)", bd.PlanBase)
	}
}

func TestComputeTotalCapacity(t *testing.T) {
	// "Cabaña Fénix" seats exactly two
	plan := perPersonPlan(350000, 2, 2)

	_, err := ComputeTotal(plan, 1, 0, nil, nil)
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capErr.Bound != "min" || capErr.Limit != 2 {
		t.Errorf("expected min bound of 2 named, got %+v", capErr)
	}

	_, err = ComputeTotal(plan, 2, 1, nil, nil)
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capErr.Bound != "max" || capErr.Limit != 2 {
		t.Errorf("expected max bound of 2 named, got %+v", capErr)
	}
}

func TestComputeTotalAddonAsymmetry(t *testing.T) {
	plan := perPersonPlan(100000, 1, 10,
		Addon{Key: "mula", Label: "Mula de salida", PricePerPerson: 30000},
	)
	extras := []*ExtraService{
		{Key: "foto", Label: "Fotografía", Price: 85000, IsActive: true},
	}

	bd, err := ComputeTotal(plan, 3, 1, []string{"mula"}, extras)
	if err != nil {
		t.Fatalf("ComputeTotal failed: %v", err)
	}

	// Plan add-on scales with the 4 guests, the extra service does not
	if len(bd.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(bd.Lines))
	}
	if bd.Lines[0].LineTotal != 120000 || bd.Lines[0].Persons != 4 {
		t.Errorf("addon line = %+v, want 120000 across 4 persons", bd.Lines[0])
	}
	if bd.Lines[1].LineTotal != 85000 || bd.Lines[1].Persons != 1 {
		t.Errorf("extra line = %+v, want flat 85000", bd.Lines[1])
	}
	if bd.AddonsTotal != 205000 {
		t.Errorf("AddonsTotal = %d, want 205000", bd.AddonsTotal)
	}

	wantSubtotal := int64(4*100000 + 205000)
	if bd.Subtotal != wantSubtotal {
		t.Errorf("Subtotal = %d, want %d", bd.Subtotal, wantSubtotal)
	}
	if bd.Total != bd.Subtotal+bd.Insurance {
		t.Errorf("Total = %d, want subtotal+insurance", bd.Total)
	}
}

func TestComputeTotalUnknownAddon(t *testing.T) {
	plan := perPersonPlan(100000, 1, 10)
	if _, err := ComputeTotal(plan, 2, 0, []string{"jetski"}, nil); !errors.Is(err, ErrUnknownAddon) {
		t.Errorf("expected ErrUnknownAddon, got %v", err)
	}
}

func TestComputeTotalMonotonicInPeople(t *testing.T) {
	plan := perPersonPlan(150000, 1, 12,
		Addon{Key: "cabalgata", Label: "Cabalgata", PricePerPerson: 40000},
	)

	var prev int64
	for people := 1; people <= 12; people++ {
		bd, err := ComputeTotal(plan, people, 0, []string{"cabalgata"}, nil)
		if err != nil {
			t.Fatalf("ComputeTotal(%d people) failed: %v", people, err)
		}
		if bd.Total < prev {
			t.Errorf("total decreased from %d to %d at %d people", prev, bd.Total, people)
		}
		prev = bd.Total
	}
}

func TestInsuranceRounding(t *testing.T) {
	// 10% of 5 is 0.5, which rounds half-up to 1
	plan := perPersonPlan(5, 1, 1)
	bd, err := ComputeTotal(plan, 1, 0, nil, nil)
	if err != nil {
		t.Fatalf("ComputeTotal failed: %v", err)
	}
	if bd.Insurance != 1 {
		t.Errorf("Insurance = %d, want 1 (half-up)", bd.Insurance)
	}
}
