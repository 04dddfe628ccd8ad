package reservation

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar-day wire format used by every reservation view.
const DateLayout = "2006-01-02"

type WindowType string

const (
	WindowLoad   WindowType = "load"
	WindowShow   WindowType = "show"
	WindowUnload WindowType = "unload"
)

// WindowTypes lists the phases of an order in their natural order.
var WindowTypes = []WindowType{WindowLoad, WindowShow, WindowUnload}

// Day truncates t to its calendar day (UTC, no time-of-day).
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// Interval is an inclusive range of calendar days.
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) Interval {
	return Interval{Start: Day(start), End: Day(end)}
}

// Contains reports whether d lies in [Start, End], both ends inclusive.
func (i Interval) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(i.Start) && !d.After(i.End)
}

// Overlaps reports whether i shares at least one day with other.
func (i Interval) Overlaps(other Interval) bool {
	return !i.Start.After(other.End) && !i.End.Before(other.Start)
}

func (i Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{
		Start: i.Start.Format(DateLayout),
		End:   i.End.Format(DateLayout),
	})
}

// Window is one phase of an order. Either bound may be missing.
type Window struct {
	Type  WindowType
	Start *time.Time
	End   *time.Time
}

// Interval returns the window as an interval when both bounds are present.
func (w Window) Interval() (Interval, bool) {
	if w.Start == nil || w.End == nil {
		return Interval{}, false
	}
	return NewInterval(*w.Start, *w.End), true
}
