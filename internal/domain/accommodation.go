package domain

import (
	"context"
	"time"
)

// Accommodation kind constants
const (
	AccommodationCabin   = "cabin"
	AccommodationCamping = "camping"
)

// Accommodation is the physical resource a plan may be bound to.
// Plans without one (day visits, standalone experiences) never conflict
// over dates.
type Accommodation struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Kind      string    `bson:"kind" json:"kind"` // cabin, camping
	Notes     string    `bson:"notes,omitempty" json:"notes"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

// AccommodationRepository defines operations for managing accommodations
type AccommodationRepository interface {
	Create(ctx context.Context, acc *Accommodation) error
	GetByID(ctx context.Context, id string) (*Accommodation, error)
	GetAll(ctx context.Context) ([]*Accommodation, error)
	Update(ctx context.Context, acc *Accommodation) error
	Delete(ctx context.Context, id string) error
}
