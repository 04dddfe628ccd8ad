package reservation

import "time"

// UpcomingEvent is the nearest event that has not started yet.
type UpcomingEvent struct {
	OrderID   int64  `json:"order_id"`
	EventName string `json:"event_name"`
	StartsOn  string `json:"starts_on"`
	DaysUntil int    `json:"days_until"`
}

// Summary feeds the dashboard.
type Summary struct {
	EventsThisMonth int            `json:"events_this_month"`
	EventsNextMonth int            `json:"events_next_month"`
	NearestEvent    *UpcomingEvent `json:"nearest_event"`
}

// Summarize counts bookings with a window in the month of today and in the
// following month, and picks the booking whose first window on or after today
// comes soonest.
func Summarize(today time.Time, bookings []Booking) Summary {
	today = Day(today)
	this := MonthOf(today)
	next := this.Next()

	var s Summary
	var nearestStart time.Time
	for _, b := range bookings {
		if b.OverlapsRange(this.Interval()) {
			s.EventsThisMonth++
		}
		if b.OverlapsRange(next.Interval()) {
			s.EventsNextMonth++
		}
		start, ok := b.FirstDayFrom(today)
		if !ok {
			continue
		}
		if s.NearestEvent == nil || start.Before(nearestStart) {
			nearestStart = start
			s.NearestEvent = &UpcomingEvent{
				OrderID:   b.OrderID,
				EventName: b.EventName,
				StartsOn:  start.Format(DateLayout),
				DaysUntil: int(start.Sub(today).Hours() / 24),
			}
		}
	}
	return s
}
