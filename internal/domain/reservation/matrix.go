package reservation

import (
	"encoding/json"
	"strconv"
)

// MatrixRow is one day of the legacy date x venue matrix. A nil entry means
// the venue is free that day.
type MatrixRow struct {
	Date   string
	Venues map[int64]*string
}

// MarshalJSON flattens the row into {"date": ..., "<venue id>": name|null}.
func (r MatrixRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Venues)+1)
	for id, name := range r.Venues {
		flat[strconv.FormatInt(id, 10)] = name
	}
	flat["date"] = r.Date
	return json.Marshal(flat)
}

// BuildMatrix is the legacy calendar view that predates the three-window
// model: every order is treated as one span from its earliest start to its
// latest end. When several orders cover the same venue and day, the one that
// comes last in bookings wins. Superseded by BuildSlotMap.
func BuildMatrix(m Month, venueIDs []int64, bookings []Booking) []MatrixRow {
	type spanned struct {
		booking Booking
		span    Interval
	}
	withSpan := make([]spanned, 0, len(bookings))
	for _, b := range bookings {
		if span, ok := b.Span(); ok {
			withSpan = append(withSpan, spanned{booking: b, span: span})
		}
	}

	rows := make([]MatrixRow, 0, 31)
	for _, day := range m.Days() {
		row := MatrixRow{Date: day.Format(DateLayout), Venues: make(map[int64]*string, len(venueIDs))}
		for _, vid := range venueIDs {
			row.Venues[vid] = nil
		}
		for _, s := range withSpan {
			if !s.span.Contains(day) {
				continue
			}
			name := s.booking.EventName
			for _, vid := range s.booking.VenueIDs {
				if _, listed := row.Venues[vid]; listed {
					row.Venues[vid] = &name
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}
