package reservation

import (
	"encoding/json"
	"strings"
	"time"
)

// VenueRef is the part of a venue the calendar needs.
type VenueRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Slot is one reserved window of one order at one venue.
type Slot struct {
	OrderID   int64
	EventName string
	Type      WindowType
	Start     time.Time
	End       time.Time
	Status    Status
}

func (s Slot) Covers(day time.Time) bool {
	return Interval{Start: s.Start, End: s.End}.Contains(day)
}

func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		OrderID   int64      `json:"order_id"`
		EventName string     `json:"event_name"`
		Type      WindowType `json:"type"`
		Start     string     `json:"start"`
		End       string     `json:"end"`
		Status    Status     `json:"status"`
	}{
		OrderID:   s.OrderID,
		EventName: s.EventName,
		Type:      s.Type,
		Start:     s.Start.Format(DateLayout),
		End:       s.End.Format(DateLayout),
		Status:    s.Status,
	})
}

type VenueSchedule struct {
	Name  string `json:"name"`
	Slots []Slot `json:"slots"`
}

// SlotMap is the per-venue slot projection of a month.
type SlotMap map[int64]*VenueSchedule

// BuildSlotMap projects bookings onto venues for month m. A booking takes part
// when any of its complete windows overlaps the month; each of its complete
// windows then becomes one slot per associated venue. Venues outside the
// venue list are ignored, and every listed venue gets an entry.
func BuildSlotMap(m Month, venues []VenueRef, bookings []Booking) SlotMap {
	out := make(SlotMap, len(venues))
	for _, v := range venues {
		out[v.ID] = &VenueSchedule{Name: v.Name, Slots: []Slot{}}
	}

	month := m.Interval()
	for _, b := range bookings {
		if !b.OverlapsRange(month) {
			continue
		}
		for _, vid := range UniqueIDs(b.VenueIDs) {
			sched, ok := out[vid]
			if !ok {
				continue
			}
			for _, w := range b.Windows {
				iv, ok := w.Interval()
				if !ok {
					continue
				}
				sched.Slots = append(sched.Slots, Slot{
					OrderID:   b.OrderID,
					EventName: b.EventName,
					Type:      w.Type,
					Start:     iv.Start,
					End:       iv.End,
					Status:    b.Status,
				})
			}
		}
	}
	return out
}

// SlotsOn returns the slots of venueID covering day, in slot order.
func (sm SlotMap) SlotsOn(venueID int64, day time.Time) []Slot {
	sched, ok := sm[venueID]
	if !ok {
		return nil
	}
	var hits []Slot
	for _, s := range sched.Slots {
		if s.Covers(day) {
			hits = append(hits, s)
		}
	}
	return hits
}

// Cell is one rendered calendar cell. Span > 1 means neighbouring venues
// showing the same order were merged into this cell.
type Cell struct {
	VenueID   int64      `json:"venue_id"`
	Span      int        `json:"span"`
	OrderID   int64      `json:"order_id,omitempty"`
	EventName string     `json:"event_name,omitempty"`
	Type      WindowType `json:"type,omitempty"`
	Label     string     `json:"label,omitempty"`
	Status    *Status    `json:"status,omitempty"`
	Color     string     `json:"color,omitempty"`
}

type LayoutRow struct {
	Date  string `json:"date"`
	Day   int    `json:"day"`
	Cells []Cell `json:"cells"`
}

// BuildLayout turns a slot map into day rows for rendering, venues in the
// given column order.
func BuildLayout(m Month, venues []VenueRef, slots SlotMap) []LayoutRow {
	rows := make([]LayoutRow, 0, 31)
	for _, day := range m.Days() {
		hits := make([][]Slot, len(venues))
		for i, v := range venues {
			hits[i] = slots.SlotsOn(v.ID, day)
		}

		cells := make([]Cell, 0, len(venues))
		for i := 0; i < len(venues); {
			if len(hits[i]) == 0 {
				cells = append(cells, Cell{VenueID: venues[i].ID, Span: 1})
				i++
				continue
			}

			first := hits[i][0]
			span := 1
			for i+span < len(venues) && hasOrder(hits[i+span], first.OrderID) {
				span++
			}

			status := first.Status
			cells = append(cells, Cell{
				VenueID:   venues[i].ID,
				Span:      span,
				OrderID:   first.OrderID,
				EventName: first.EventName,
				Type:      first.Type,
				Label:     first.EventName + ": " + titleCase(string(first.Type)),
				Status:    &status,
				Color:     status.Color(),
			})
			i += span
		}

		rows = append(rows, LayoutRow{Date: day.Format(DateLayout), Day: day.Day(), Cells: cells})
	}
	return rows
}

func hasOrder(slots []Slot, orderID int64) bool {
	for _, s := range slots {
		if s.OrderID == orderID {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
