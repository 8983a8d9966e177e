package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DateRange is a stay interval expressed as calendar dates.
// Start is the check-in date, End the checkout date. Both bounds participate
// in overlap testing: a checkout day blocks a same-day check-in.
type DateRange struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// NewDateRange builds a range from two calendar dates, normalizing both to
// UTC midnight. It fails when start is after end. Day-visit plans may use
// start == end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = DateOf(start)
	end = DateOf(end)
	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, start.Format(DateLayout), end.Format(DateLayout))
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange builds a range from two YYYY-MM-DD strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: bad start date %q", ErrInvalidRange, start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: bad end date %q", ErrInvalidRange, end)
	}
	return NewDateRange(s, e)
}

// Overlaps reports whether the two ranges intersect. The comparison is
// inclusive on both ends: touching boundaries count as an overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// Nights returns the number of nights between check-in and checkout.
// A day visit (start == end) has zero nights.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start) / (24 * time.Hour))
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// DateOf truncates a time to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar date, the floor for new bookings.
func Today() time.Time {
	return DateOf(time.Now())
}
