package reservation

import "errors"

var (
	ErrUnknownStatus           = errors.New("unknown order status")
	ErrInvalidStatusTransition = errors.New("order status cannot move backwards")
)

// Status is stored as its ordinal.
type Status uint8

const (
	StatusNewInquiry Status = iota
	StatusConfirmed
	StatusCompleted
)

func (s Status) Valid() bool {
	return s <= StatusCompleted
}

func (s Status) String() string {
	switch s {
	case StatusNewInquiry:
		return "new_inquiry"
	case StatusConfirmed:
		return "confirmed"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Color is the calendar badge colour of the status.
func (s Status) Color() string {
	switch s {
	case StatusNewInquiry:
		return "green"
	case StatusConfirmed:
		return "yellow"
	default:
		return "blue"
	}
}

// Advance returns the status after moving from s to target. Moving to the
// current status is a no-op, moving backwards is rejected, and completed is
// terminal.
func (s Status) Advance(target Status) (Status, error) {
	if !target.Valid() {
		return s, ErrUnknownStatus
	}
	if target < s {
		return s, ErrInvalidStatusTransition
	}
	return target, nil
}
