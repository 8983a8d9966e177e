package domain

import (
	"context"
	"fmt"
	"time"
)

// Price type constants
const (
	PriceTypePerPerson = "per_person"
	PriceTypePerCouple = "per_couple"
)

// Capacity is the allowed guest-count window for a plan
type Capacity struct {
	Min int `bson:"min" json:"min"`
	Max int `bson:"max" json:"max"`
}

// Addon is an optional paid extra attached to a plan, charged per guest
type Addon struct {
	Key            string `bson:"key" json:"key"`
	Label          string `bson:"label" json:"label"`
	PricePerPerson int64  `bson:"price_per_person" json:"price_per_person"`
}

// Plan represents a purchasable stay/experience package.
// Prices are in COP, which has no subunit in practice, so all monetary
// values are integral.
type Plan struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	Title           string    `bson:"title" json:"title"`
	Description     string    `bson:"description" json:"description"`
	Price           int64     `bson:"price" json:"price"`
	PriceType       string    `bson:"price_type" json:"price_type"` // per_person, per_couple
	Capacity        Capacity  `bson:"capacity" json:"capacity"`
	FixedNights     int       `bson:"fixed_nights,omitempty" json:"fixed_nights"` // 0 = flexible length
	Addons          []Addon   `bson:"addons,omitempty" json:"addons"`
	AccommodationID string    `bson:"accommodation_id,omitempty" json:"accommodation_id"` // empty = no physical resource
	ImageURL        string    `bson:"image_url,omitempty" json:"image_url"`
	IsActive        bool      `bson:"is_active" json:"is_active"`
	CreatedAt       time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

// Validate checks plan invariants at the API boundary
func (p *Plan) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("plan title is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("plan price must be positive")
	}
	if p.PriceType != PriceTypePerPerson && p.PriceType != PriceTypePerCouple {
		return fmt.Errorf("price_type must be %s or %s", PriceTypePerPerson, PriceTypePerCouple)
	}
	if p.Capacity.Min < 1 || p.Capacity.Min > p.Capacity.Max {
		return fmt.Errorf("capacity min must be >= 1 and <= max")
	}
	if p.FixedNights < 0 {
		return fmt.Errorf("fixed_nights cannot be negative")
	}
	seen := make(map[string]bool, len(p.Addons))
	for _, a := range p.Addons {
		if a.Key == "" || a.Label == "" {
			return fmt.Errorf("addon key and label are required")
		}
		if a.PricePerPerson < 0 {
			return fmt.Errorf("addon %s price cannot be negative", a.Key)
		}
		if seen[a.Key] {
			return fmt.Errorf("duplicate addon key %s", a.Key)
		}
		seen[a.Key] = true
	}
	return nil
}

// FindAddon returns the plan add-on with the given key, if declared
func (p *Plan) FindAddon(key string) (Addon, bool) {
	for _, a := range p.Addons {
		if a.Key == key {
			return a, true
		}
	}
	return Addon{}, false
}

// PlanRepository defines operations for managing plans
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id string) (*Plan, error)
	GetActivePlans(ctx context.Context) ([]*Plan, error)
	GetAll(ctx context.Context) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, id string) error
}
