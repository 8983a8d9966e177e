package domain

import (
	"context"
	"time"
)

// BlackoutPeriod is an admin-declared date range during which a plan is not
// bookable, independent of actual reservations. Periods are replaced, never
// mutated.
type BlackoutPeriod struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	PlanID    string    `bson:"plan_id" json:"plan_id"`
	Range     DateRange `bson:"range" json:"range"`
	Reason    string    `bson:"reason,omitempty" json:"reason"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at"`
}

// BlackoutRepository defines operations for managing blackout periods
type BlackoutRepository interface {
	Create(ctx context.Context, period *BlackoutPeriod) error
	GetByID(ctx context.Context, id string) (*BlackoutPeriod, error)
	FindByPlan(ctx context.Context, planID string) ([]*BlackoutPeriod, error)
	Delete(ctx context.Context, id string) error
}
