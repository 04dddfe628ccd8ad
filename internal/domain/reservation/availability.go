package reservation

import "time"

// Index maps a venue to the day intervals already committed to other orders.
// Intervals are neither merged nor de-duplicated.
type Index map[int64][]Interval

// Add records every complete window of bookings against venueID. The venue
// key is created even when nothing is blocked.
func (ix Index) Add(venueID int64, bookings ...Booking) {
	list, ok := ix[venueID]
	if !ok {
		list = []Interval{}
	}
	for _, b := range bookings {
		list = append(list, b.Intervals()...)
	}
	ix[venueID] = list
}

// Blocked returns the intervals recorded for venueID.
func (ix Index) Blocked(venueID int64) []Interval {
	return ix[venueID]
}

// IsBlocked reports whether d falls inside any interval of venueID.
func (ix Index) IsBlocked(venueID int64, d time.Time) bool {
	for _, iv := range ix[venueID] {
		if iv.Contains(d) {
			return true
		}
	}
	return false
}

// BuildIndex computes the availability index for venueIDs from a snapshot of
// bookings. Bookings not associated with a venue do not contribute to it, and
// the booking whose order id equals exclude (when set) is ignored entirely.
func BuildIndex(venueIDs []int64, bookings []Booking, exclude *int64) Index {
	ix := Index{}
	for _, vid := range UniqueIDs(venueIDs) {
		matched := make([]Booking, 0)
		for _, b := range bookings {
			if exclude != nil && b.OrderID == *exclude {
				continue
			}
			if b.HasVenue(vid) {
				matched = append(matched, b)
			}
		}
		ix.Add(vid, matched...)
	}
	return ix
}

// UniqueIDs drops duplicate ids, keeping first-seen order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
