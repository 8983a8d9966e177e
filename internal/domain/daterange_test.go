package domain

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	r, err := NewDateRange(start, end)
	if err != nil {
		t.Fatalf("NewDateRange(%v, %v) failed: %v", start, end, err)
	}
	return r
}

func TestNewDateRange(t *testing.T) {
	if _, err := NewDateRange(date(2025, 6, 12), date(2025, 6, 10)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for inverted range, got %v", err)
	}

	// Day visits use start == end
	r, err := NewDateRange(date(2025, 6, 10), date(2025, 6, 10))
	if err != nil {
		t.Fatalf("single-day range should be valid: %v", err)
	}
	if r.Nights() != 0 {
		t.Errorf("single-day range should have 0 nights, got %d", r.Nights())
	}

	// Times of day are stripped to the calendar date
	r = mustRange(t, time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC), time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC))
	if !r.Start.Equal(date(2025, 6, 10)) || !r.End.Equal(date(2025, 6, 12)) {
		t.Errorf("range not normalized to midnight: %v", r)
	}
	if r.Nights() != 2 {
		t.Errorf("expected 2 nights, got %d", r.Nights())
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2025-06-10", "2025-06-12")
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}
	if !r.Start.Equal(date(2025, 6, 10)) || !r.End.Equal(date(2025, 6, 12)) {
		t.Errorf("unexpected range %v", r)
	}

	if _, err := ParseDateRange("10/06/2025", "2025-06-12"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for bad format, got %v", err)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{
			name: "disjoint",
			a:    DateRange{Start: date(2025, 6, 1), End: date(2025, 6, 5)},
			b:    DateRange{Start: date(2025, 6, 10), End: date(2025, 6, 12)},
			want: false,
		},
		{
			name: "partial overlap",
			a:    DateRange{Start: date(2025, 6, 10), End: date(2025, 6, 12)},
			b:    DateRange{Start: date(2025, 6, 11), End: date(2025, 6, 13)},
			want: true,
		},
		{
			name: "contained",
			a:    DateRange{Start: date(2025, 6, 1), End: date(2025, 6, 30)},
			b:    DateRange{Start: date(2025, 6, 10), End: date(2025, 6, 12)},
			want: true,
		},
		{
			name: "touching boundary counts as overlap",
			a:    DateRange{Start: date(2025, 6, 1), End: date(2025, 6, 10)},
			b:    DateRange{Start: date(2025, 6, 10), End: date(2025, 6, 15)},
			want: true,
		},
		{
			name: "adjacent next day does not overlap",
			a:    DateRange{Start: date(2025, 6, 1), End: date(2025, 6, 10)},
			b:    DateRange{Start: date(2025, 6, 11), End: date(2025, 6, 15)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Symmetry
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestOverlapsSelf(t *testing.T) {
	r := DateRange{Start: date(2025, 7, 1), End: date(2025, 7, 5)}
	if !r.Overlaps(r) {
		t.Error("a range must overlap itself")
	}
}
