package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"venuebook/internal/domain/reservation"
)

// Date is a nullable calendar day stored as a DATE column. It is written as
// YYYY-MM-DD so that postgres and sqlite compare it the same way.
type Date struct {
	Time  time.Time
	Valid bool
}

func DateOf(t time.Time) Date {
	return Date{Time: reservation.Day(t), Valid: true}
}

// ParseDate parses YYYY-MM-DD. The empty string is a null date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := reservation.ParseDay(s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t, Valid: true}, nil
}

// Ptr returns nil for a null date.
func (d Date) Ptr() *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(reservation.DateLayout)
}

func (Date) GormDataType() string {
	return "date"
}

func (d Date) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("order: cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(reservation.DateLayout) {
		s = s[:len(reservation.DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("order: scan date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
