package reservation

import "time"

// Booking is a read-only snapshot of one order as the availability and
// calendar projections see it.
type Booking struct {
	OrderID   int64
	EventName string
	Status    Status
	VenueIDs  []int64
	Windows   []Window
}

// Intervals returns the complete windows of the booking in load, show,
// unload order. Windows with a missing bound are skipped.
func (b Booking) Intervals() []Interval {
	out := make([]Interval, 0, len(b.Windows))
	for _, w := range b.Windows {
		if iv, ok := w.Interval(); ok {
			out = append(out, iv)
		}
	}
	return out
}

// Span is the overall reserved range, from the earliest window start to the
// latest window end.
func (b Booking) Span() (Interval, bool) {
	ivs := b.Intervals()
	if len(ivs) == 0 {
		return Interval{}, false
	}
	span := ivs[0]
	for _, iv := range ivs[1:] {
		if iv.Start.Before(span.Start) {
			span.Start = iv.Start
		}
		if iv.End.After(span.End) {
			span.End = iv.End
		}
	}
	return span, true
}

// OverlapsRange reports whether any complete window shares a day with r.
func (b Booking) OverlapsRange(r Interval) bool {
	for _, iv := range b.Intervals() {
		if iv.Overlaps(r) {
			return true
		}
	}
	return false
}

// HasVenue reports whether the booking is associated with venueID.
func (b Booking) HasVenue(venueID int64) bool {
	for _, id := range b.VenueIDs {
		if id == venueID {
			return true
		}
	}
	return false
}

// FirstDayFrom returns the earliest window start that is not before day.
func (b Booking) FirstDayFrom(day time.Time) (time.Time, bool) {
	day = Day(day)
	var best time.Time
	found := false
	for _, iv := range b.Intervals() {
		if iv.Start.Before(day) {
			continue
		}
		if !found || iv.Start.Before(best) {
			best = iv.Start
			found = true
		}
	}
	return best, found
}
