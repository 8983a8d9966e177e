package domain

import "fmt"

// insuranceRatePercent is the mandatory surcharge applied to every booking's
// subtotal.
const insuranceRatePercent = 10

// AddonLine is one priced selection in a breakdown. Plan add-ons carry the
// guest count in Persons; flat extra services always carry 1.
type AddonLine struct {
	Key       string `bson:"key" json:"key"`
	Label     string `bson:"label" json:"label"`
	UnitPrice int64  `bson:"unit_price" json:"unit_price"`
	Persons   int    `bson:"persons" json:"persons"`
	LineTotal int64  `bson:"line_total" json:"line_total"`
}

// PriceBreakdown itemizes a booking's cost for the confirmation screen and
// the receipt. All amounts are COP.
type PriceBreakdown struct {
	PlanBase    int64       `bson:"plan_base" json:"plan_base"`
	Lines       []AddonLine `bson:"lines,omitempty" json:"lines"`
	AddonsTotal int64       `bson:"addons_total" json:"addons_total"`
	Subtotal    int64       `bson:"subtotal" json:"subtotal"`
	Insurance   int64       `bson:"insurance" json:"insurance"`
	Total       int64       `bson:"total" json:"total"`
}

// CapacityError reports a guest count outside the plan's capacity window.
// It names the violated bound so the UI can surface it verbatim.
type CapacityError struct {
	Bound  string // "min" or "max"
	Limit  int
	People int
}

func (e *CapacityError) Error() string {
	if e.Bound == "min" {
		return fmt.Sprintf("group of %d is below the plan minimum of %d guests", e.People, e.Limit)
	}
	return fmt.Sprintf("group of %d exceeds the plan maximum of %d guests", e.People, e.Limit)
}

// ComputeTotal prices a booking attempt.
//
// The guest count must fall within the plan's capacity or a *CapacityError is
// returned and pricing never proceeds. Per-couple plans charge per started
// couple (ceil(people/2)). Plan add-ons scale with the guest count; extra
// services are flat fees added once regardless of group size. The insurance
// surcharge is 10% of the subtotal, rounded half-up in integer arithmetic —
// COP amounts are always whole, so no floating point is involved anywhere.
func ComputeTotal(plan *Plan, adults, children int, addonKeys []string, extras []*ExtraService) (*PriceBreakdown, error) {
	people := adults + children
	if people < plan.Capacity.Min {
		return nil, &CapacityError{Bound: "min", Limit: plan.Capacity.Min, People: people}
	}
	if people > plan.Capacity.Max {
		return nil, &CapacityError{Bound: "max", Limit: plan.Capacity.Max, People: people}
	}

	breakdown := &PriceBreakdown{}

	switch plan.PriceType {
	case PriceTypePerCouple:
		couples := int64((people + 1) / 2)
		breakdown.PlanBase = plan.Price * couples
	default:
		breakdown.PlanBase = plan.Price * int64(people)
	}

	// Walk the plan's declared add-ons in order so line items keep the
	// plan's presentation order regardless of selection order.
	selected := make(map[string]bool, len(addonKeys))
	for _, key := range addonKeys {
		selected[key] = true
	}
	for _, addon := range plan.Addons {
		if !selected[addon.Key] {
			continue
		}
		delete(selected, addon.Key)
		line := AddonLine{
			Key:       addon.Key,
			Label:     addon.Label,
			UnitPrice: addon.PricePerPerson,
			Persons:   people,
			LineTotal: addon.PricePerPerson * int64(people),
		}
		breakdown.Lines = append(breakdown.Lines, line)
		breakdown.AddonsTotal += line.LineTotal
	}
	if len(selected) > 0 {
		for key := range selected {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAddon, key)
		}
	}

	for _, extra := range extras {
		line := AddonLine{
			Key:       extra.Key,
			Label:     extra.Label,
			UnitPrice: extra.Price,
			Persons:   1,
			LineTotal: extra.Price,
		}
		breakdown.Lines = append(breakdown.Lines, line)
		breakdown.AddonsTotal += line.LineTotal
	}

	breakdown.Subtotal = breakdown.PlanBase + breakdown.AddonsTotal
	breakdown.Insurance = (breakdown.Subtotal*insuranceRatePercent + 50) / 100
	breakdown.Total = breakdown.Subtotal + breakdown.Insurance

	return breakdown, nil
}
