package domain

import (
	"context"
	"time"
)

// Reservation status constants
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

// GuestContact holds the booking customer's contact details
type GuestContact struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone"`
}

// Reservation is a booked stay against an accommodation. Status is an
// explicit field driven by the payment webhook; it is never derived from the
// paid amount.
type Reservation struct {
	ID              string         `bson:"_id,omitempty" json:"id"`
	Reference       string         `bson:"reference" json:"reference"` // ULID, shared with the payment gateway
	PlanID          string         `bson:"plan_id" json:"plan_id"`
	AccommodationID string         `bson:"accommodation_id,omitempty" json:"accommodation_id"`
	Range           DateRange      `bson:"range" json:"range"`
	Adults          int            `bson:"adults" json:"adults"`
	Children        int            `bson:"children" json:"children"`
	Guest           GuestContact   `bson:"guest" json:"guest"`
	AddonLines      []AddonLine    `bson:"addon_lines,omitempty" json:"addon_lines"`
	Summary         string         `bson:"summary" json:"summary"` // human-readable selection description
	Quote           PriceBreakdown `bson:"quote" json:"quote"`     // price snapshot at booking time
	AmountPaid      int64          `bson:"amount_paid" json:"amount_paid"`
	PaymentRef      string         `bson:"payment_ref,omitempty" json:"payment_ref"`
	Status          string         `bson:"status" json:"status"`
	CreatedAt       time.Time      `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt       time.Time      `bson:"updated_at,omitempty" json:"updated_at"`
}

// Blocking reports whether the reservation occupies its accommodation.
// Cancelled reservations free their dates.
func (r *Reservation) Blocking() bool {
	return r.Status != ReservationStatusCancelled
}

// ReservationRepository defines operations for managing reservations
type ReservationRepository interface {
	Create(ctx context.Context, res *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	GetByReference(ctx context.Context, reference string) (*Reservation, error)
	// FindOverlapping returns non-cancelled reservations for the accommodation
	// whose range intersects the requested one.
	FindOverlapping(ctx context.Context, accommodationID string, r DateRange) ([]*Reservation, error)
	GetByPlan(ctx context.Context, planID string) ([]*Reservation, error)
	GetAll(ctx context.Context) ([]*Reservation, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	// RecordPayment sets the paid amount and gateway reference and flips the
	// reservation to confirmed.
	RecordPayment(ctx context.Context, reference string, amount int64, paymentRef string) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
	SumPaidAmount(ctx context.Context) (int64, error)
}
