package order

import (
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain/customer"
	"venuebook/internal/domain/department"
	"venuebook/internal/domain/reservation"
	"venuebook/internal/domain/venue"
)

// Order is one reservation: a customer, a set of venues, up to three date
// windows and the department assignments (BEOs) attached to it.
type Order struct {
	ID          int64              `gorm:"primaryKey" json:"id"`
	EventName   string             `gorm:"size:255" json:"event_name"`
	Description string             `gorm:"type:text" json:"description"`
	Status      reservation.Status `gorm:"not null;default:0" json:"status"`

	LoadStart   Date `json:"load_start"`
	LoadEnd     Date `json:"load_end"`
	ShowStart   Date `json:"show_start"`
	ShowEnd     Date `json:"show_end"`
	UnloadStart Date `json:"unload_start"`
	UnloadEnd   Date `json:"unload_end"`

	CustomerID int64              `gorm:"not null;index" json:"customer_id"`
	Customer   *customer.Customer `json:"customer,omitempty"`
	Venues     []venue.Venue      `gorm:"many2many:order_venues" json:"venues,omitempty"`
	Beos       []Beo              `json:"beos,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// Windows returns load, show and unload in that order.
func (o *Order) Windows() []reservation.Window {
	return []reservation.Window{
		{Type: reservation.WindowLoad, Start: o.LoadStart.Ptr(), End: o.LoadEnd.Ptr()},
		{Type: reservation.WindowShow, Start: o.ShowStart.Ptr(), End: o.ShowEnd.Ptr()},
		{Type: reservation.WindowUnload, Start: o.UnloadStart.Ptr(), End: o.UnloadEnd.Ptr()},
	}
}

func (o *Order) VenueIDs() []int64 {
	ids := make([]int64, 0, len(o.Venues))
	for _, v := range o.Venues {
		ids = append(ids, v.ID)
	}
	return ids
}

// Booking is the read-only snapshot the availability and calendar views use.
// Venues must be loaded.
func (o *Order) Booking() reservation.Booking {
	return reservation.Booking{
		OrderID:   o.ID,
		EventName: o.EventName,
		Status:    o.Status,
		VenueIDs:  o.VenueIDs(),
		Windows:   o.Windows(),
	}
}

func bookings(orders []Order) []reservation.Booking {
	out := make([]reservation.Booking, 0, len(orders))
	for i := range orders {
		out = append(out, orders[i].Booking())
	}
	return out
}

// OrderVenue is the order <-> venue join row.
type OrderVenue struct {
	OrderID   int64 `gorm:"primaryKey"`
	VenueID   int64 `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

func (OrderVenue) TableName() string {
	return "order_venues"
}

// Beo is a department assignment attached to an order.
type Beo struct {
	ID           int64                  `gorm:"primaryKey" json:"id"`
	OrderID      int64                  `gorm:"not null;index" json:"order_id"`
	DepartmentID int64                  `gorm:"not null;index" json:"department_id"`
	Department   *department.Department `json:"department,omitempty"`
	Description  string                 `gorm:"type:text" json:"description"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	DeletedAt    gorm.DeletedAt         `gorm:"index" json:"-"`
}

func (Beo) TableName() string {
	return "beos"
}

// beoKey identifies an assignment by content when refreshing an order's BEOs.
type beoKey struct {
	DepartmentID int64
	Description  string
}

func (b Beo) key() beoKey {
	return beoKey{DepartmentID: b.DepartmentID, Description: b.Description}
}
