package domain

// Unavailability reasons surfaced to the booking UI. The strings are part of
// the public API contract with the frontend.
const (
	ReasonReserved    = "RESERVADO"
	ReasonUnavailable = "NO DISPONIBLE TEMPORALMENTE"
)

// AvailabilityResult is the outcome of checking a plan against its existing
// reservations and blackout periods.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// UnavailableError signals a date conflict for a booking attempt. It carries
// the admin-supplied or default reason string and is a user-correctable
// validation failure, not a system fault.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	return "plan not available for the requested dates: " + e.Reason
}
