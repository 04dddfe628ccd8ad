package reservation

import (
	"errors"
	"time"
)

var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Month is a calendar month addressed with a 1-based month number.
type Month struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func NewMonth(year, month int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: year, Month: month}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: int(t.Month())}
}

// Start is the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End is the last day of the month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

func (m Month) Interval() Interval {
	return Interval{Start: m.Start(), End: m.End()}
}

// Days lists every calendar day of the month in order.
func (m Month) Days() []time.Time {
	end := m.End()
	days := make([]time.Time, 0, 31)
	for d := m.Start(); !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (m Month) Prev() Month {
	if m.Month == 1 {
		return Month{Year: m.Year - 1, Month: 12}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

func (m Month) Next() Month {
	if m.Month == 12 {
		return Month{Year: m.Year + 1, Month: 1}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}
