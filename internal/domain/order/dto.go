package order

import (
	"strings"

	"venuebook/internal/domain/customer"
	"venuebook/internal/domain/reservation"
)

// OrderRequest is the create/update form of an order with its nested
// customer, venue selection and BEO entries.
type OrderRequest struct {
	EventName   string           `json:"event_name" validate:"required,max=255"`
	Description string           `json:"description"`
	Customer    customer.Request `json:"customer"`
	Venues      []int64          `json:"venues" validate:"required,min=1,dive,gt=0"`

	LoadStart   string `json:"load_start" validate:"omitempty,datetime=2006-01-02"`
	LoadEnd     string `json:"load_end" validate:"omitempty,datetime=2006-01-02"`
	ShowStart   string `json:"show_start" validate:"omitempty,datetime=2006-01-02"`
	ShowEnd     string `json:"show_end" validate:"omitempty,datetime=2006-01-02"`
	UnloadStart string `json:"unload_start" validate:"omitempty,datetime=2006-01-02"`
	UnloadEnd   string `json:"unload_end" validate:"omitempty,datetime=2006-01-02"`

	Beos []BeoEntry `json:"beos" validate:"dive"`
}

// BeoEntry is one assignment row of an order form. Rows without a department
// are ignored.
type BeoEntry struct {
	DepartmentID *int64 `json:"department_id" validate:"omitempty,gte=0"`
	Description  string `json:"description"`
}

func (e BeoEntry) department() (int64, bool) {
	if e.DepartmentID == nil || *e.DepartmentID == 0 {
		return 0, false
	}
	return *e.DepartmentID, true
}

// StatusRequest moves an order forward. An omitted status means confirmed.
type StatusRequest struct {
	Status *int `json:"status" validate:"omitempty,gte=0"`
}

func (r StatusRequest) target() (reservation.Status, bool) {
	if r.Status == nil {
		return reservation.StatusConfirmed, true
	}
	if *r.Status > int(reservation.StatusCompleted) {
		return 0, false
	}
	return reservation.Status(*r.Status), true
}

type BeoRequest struct {
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
	Description  string `json:"description"`
}

type BeoDescriptionRequest struct {
	Description string `json:"description"`
}

type windowInput struct {
	typ        reservation.WindowType
	start, end string
}

func (r *OrderRequest) windowInputs() []windowInput {
	return []windowInput{
		{reservation.WindowLoad, strings.TrimSpace(r.LoadStart), strings.TrimSpace(r.LoadEnd)},
		{reservation.WindowShow, strings.TrimSpace(r.ShowStart), strings.TrimSpace(r.ShowEnd)},
		{reservation.WindowUnload, strings.TrimSpace(r.UnloadStart), strings.TrimSpace(r.UnloadEnd)},
	}
}

// draft is a validated request ready to be written.
type draft struct {
	eventName   string
	description string
	customer    customer.Request
	venueIDs    []int64
	dates       [6]Date
	beos        []Beo
}

func (d *draft) applyTo(o *Order) {
	o.EventName = d.eventName
	o.Description = d.description
	o.LoadStart, o.LoadEnd = d.dates[0], d.dates[1]
	o.ShowStart, o.ShowEnd = d.dates[2], d.dates[3]
	o.UnloadStart, o.UnloadEnd = d.dates[4], d.dates[5]
}

// CalendarView is the per-venue month projection plus its rendered layout.
type CalendarView struct {
	Year   int                     `json:"year"`
	Month  int                     `json:"month"`
	Prev   reservation.Month       `json:"prev"`
	Next   reservation.Month       `json:"next"`
	Venues []reservation.VenueRef  `json:"venues"`
	Slots  reservation.SlotMap     `json:"slots"`
	Layout []reservation.LayoutRow `json:"layout"`
}

// MatrixView is the legacy single-span calendar.
type MatrixView struct {
	Year   int                     `json:"year"`
	Month  int                     `json:"month"`
	Prev   reservation.Month       `json:"prev"`
	Next   reservation.Month       `json:"next"`
	Venues []reservation.VenueRef  `json:"venues"`
	Rows   []reservation.MatrixRow `json:"rows"`
}
