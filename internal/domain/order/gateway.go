package order

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"venuebook/internal/database"
	"venuebook/internal/domain/customer"
	"venuebook/internal/domain/department"
	"venuebook/internal/domain/reservation"
	"venuebook/internal/domain/venue"
)

// UnitOfWork is the handle every gateway call runs on. A transactional unit
// must be finished with Commit or Rollback; Rollback after Commit is a no-op
// so it can always be deferred.
type UnitOfWork struct {
	db   *gorm.DB
	tx   bool
	done bool
}

func (u *UnitOfWork) Commit() error {
	if !u.tx || u.done {
		return nil
	}
	u.done = true
	return u.db.Commit().Error
}

func (u *UnitOfWork) Rollback() error {
	if !u.tx || u.done {
		return nil
	}
	u.done = true
	return u.db.Rollback().Error
}

// Gateway is the persistence boundary of the order aggregate.
type Gateway interface {
	Begin(ctx context.Context) (*UnitOfWork, error)
	Snapshot(ctx context.Context) *UnitOfWork

	ListVenues(u *UnitOfWork) ([]venue.Venue, error)
	FindVenuesByIDs(u *UnitOfWork, ids []int64) ([]venue.Venue, error)
	FindDepartmentsByIDs(u *UnitOfWork, ids []int64) ([]department.Department, error)

	FindOrdersForVenue(u *UnitOfWork, venueID int64, exclude *int64) ([]Order, error)
	FindOrdersOverlappingMonth(u *UnitOfWork, start, end time.Time) ([]Order, error)
	ListOrders(u *UnitOfWork) ([]Order, error)
	GetOrder(u *UnitOfWork, id int64) (*Order, error)

	CreateCustomer(u *UnitOfWork, c *customer.Customer) error
	UpdateCustomer(u *UnitOfWork, c *customer.Customer) error
	CreateOrder(u *UnitOfWork, o *Order) error
	UpdateOrder(u *UnitOfWork, o *Order) error
	UpdateOrderStatus(u *UnitOfWork, id int64, status reservation.Status) error
	SyncOrderVenues(u *UnitOfWork, orderID int64, venueIDs []int64) (reservation.Diff[int64], error)
	DetachOrderVenues(u *UnitOfWork, orderID int64) error
	SoftDeleteOrder(u *UnitOfWork, id int64) error

	ListOrderBeos(u *UnitOfWork, orderID int64) ([]Beo, error)
	GetBeo(u *UnitOfWork, id int64) (*Beo, error)
	CreateBeo(u *UnitOfWork, b *Beo) error
	UpdateBeoDescription(u *UnitOfWork, id int64, description string) error
	DeleteBeos(u *UnitOfWork, ids []int64) error
	DeleteOrderBeos(u *UnitOfWork, orderID int64) error

	PurgeDeleted(u *UnitOfWork, before time.Time) (PurgeResult, error)
}

// PurgeResult counts rows removed for good by a retention sweep.
type PurgeResult struct {
	Orders int64 `json:"orders"`
	Beos   int64 `json:"beos"`
}

type GormGateway struct {
	db *gorm.DB
}

func NewGateway(db *gorm.DB) *GormGateway {
	return &GormGateway{db: db}
}

// Migrate creates every table the order aggregate touches.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Order{}, "Venues", &OrderVenue{}); err != nil {
		return err
	}
	return database.Migrate(db,
		&customer.Customer{},
		&venue.Venue{},
		&department.Department{},
		&Order{},
		&OrderVenue{},
		&Beo{},
	)
}

func (g *GormGateway) Begin(ctx context.Context) (*UnitOfWork, error) {
	tx := g.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &UnitOfWork{db: tx, tx: true}, nil
}

// Snapshot is a non-transactional unit for reads.
func (g *GormGateway) Snapshot(ctx context.Context) *UnitOfWork {
	return &UnitOfWork{db: g.db.WithContext(ctx)}
}

func (g *GormGateway) ListVenues(u *UnitOfWork) ([]venue.Venue, error) {
	var venues []venue.Venue
	if err := u.db.Order("id asc").Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

func (g *GormGateway) FindVenuesByIDs(u *UnitOfWork, ids []int64) ([]venue.Venue, error) {
	var venues []venue.Venue
	if len(ids) == 0 {
		return venues, nil
	}
	if err := u.db.Where("id IN ?", ids).Order("id asc").Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

func (g *GormGateway) FindDepartmentsByIDs(u *UnitOfWork, ids []int64) ([]department.Department, error) {
	var departments []department.Department
	if len(ids) == 0 {
		return departments, nil
	}
	if err := u.db.Where("id IN ?", ids).Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func withVenues(db *gorm.DB) *gorm.DB {
	return db.Order("venues.id asc")
}

// FindOrdersForVenue returns live orders linked to venueID, venues loaded.
func (g *GormGateway) FindOrdersForVenue(u *UnitOfWork, venueID int64, exclude *int64) ([]Order, error) {
	linked := u.db.Model(&OrderVenue{}).Select("order_id").Where("venue_id = ?", venueID)
	q := u.db.Preload("Venues", withVenues).Where("id IN (?)", linked)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}

	var orders []Order
	if err := q.Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOrdersOverlappingMonth returns orders with at least one complete window
// intersecting [start, end].
func (g *GormGateway) FindOrdersOverlappingMonth(u *UnitOfWork, start, end time.Time) ([]Order, error) {
	from, to := DateOf(start), DateOf(end)
	var orders []Order
	err := u.db.Preload("Venues", withVenues).
		Where("(load_start <= ? AND load_end >= ?) OR (show_start <= ? AND show_end >= ?) OR (unload_start <= ? AND unload_end >= ?)",
			to, from, to, from, to, from).
		Order("id asc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (g *GormGateway) ListOrders(u *UnitOfWork) ([]Order, error) {
	var orders []Order
	err := u.db.Preload("Customer").Preload("Venues", withVenues).
		Order("id asc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder loads the whole aggregate: customer, venues and BEOs with their
// departments.
func (g *GormGateway) GetOrder(u *UnitOfWork, id int64) (*Order, error) {
	var o Order
	err := u.db.Preload("Customer").
		Preload("Venues", withVenues).
		Preload("Beos", func(db *gorm.DB) *gorm.DB { return db.Order("beos.id asc") }).
		Preload("Beos.Department").
		First(&o, id).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (g *GormGateway) CreateCustomer(u *UnitOfWork, c *customer.Customer) error {
	return u.db.Create(c).Error
}

// UpdateCustomer fails with customer.ErrCustomerNotFound when the order's
// customer has been removed.
func (g *GormGateway) UpdateCustomer(u *UnitOfWork, c *customer.Customer) error {
	res := u.db.Model(&customer.Customer{ID: c.ID}).Updates(map[string]any{
		"organizer":      c.Organizer,
		"address":        c.Address,
		"contact_person": c.ContactPerson,
		"email":          c.Email,
		"phone":          c.Phone,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}

func (g *GormGateway) CreateOrder(u *UnitOfWork, o *Order) error {
	return u.db.Omit(clause.Associations).Create(o).Error
}

func (g *GormGateway) UpdateOrder(u *UnitOfWork, o *Order) error {
	res := u.db.Model(&Order{ID: o.ID}).Updates(map[string]any{
		"event_name":   o.EventName,
		"description":  o.Description,
		"load_start":   o.LoadStart,
		"load_end":     o.LoadEnd,
		"show_start":   o.ShowStart,
		"show_end":     o.ShowEnd,
		"unload_start": o.UnloadStart,
		"unload_end":   o.UnloadEnd,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (g *GormGateway) UpdateOrderStatus(u *UnitOfWork, id int64, status reservation.Status) error {
	res := u.db.Model(&Order{ID: id}).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// SyncOrderVenues makes the order's venue links equal venueIDs, touching only
// the links that differ.
func (g *GormGateway) SyncOrderVenues(u *UnitOfWork, orderID int64, venueIDs []int64) (reservation.Diff[int64], error) {
	var current []int64
	if err := u.db.Model(&OrderVenue{}).Where("order_id = ?", orderID).Order("venue_id asc").Pluck("venue_id", &current).Error; err != nil {
		return reservation.Diff[int64]{}, err
	}

	diff := reservation.Reconcile(current, reservation.UniqueIDs(venueIDs))
	if len(diff.ToRemove) > 0 {
		if err := u.db.Where("order_id = ? AND venue_id IN ?", orderID, diff.ToRemove).Delete(&OrderVenue{}).Error; err != nil {
			return diff, err
		}
	}
	if len(diff.ToAdd) > 0 {
		links := make([]OrderVenue, 0, len(diff.ToAdd))
		for _, vid := range diff.ToAdd {
			links = append(links, OrderVenue{OrderID: orderID, VenueID: vid})
		}
		if err := u.db.Create(&links).Error; err != nil {
			return diff, err
		}
	}
	return diff, nil
}

func (g *GormGateway) DetachOrderVenues(u *UnitOfWork, orderID int64) error {
	return u.db.Where("order_id = ?", orderID).Delete(&OrderVenue{}).Error
}

func (g *GormGateway) SoftDeleteOrder(u *UnitOfWork, id int64) error {
	res := u.db.Delete(&Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (g *GormGateway) ListOrderBeos(u *UnitOfWork, orderID int64) ([]Beo, error) {
	var beos []Beo
	err := u.db.Preload("Department").
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&beos).Error
	if err != nil {
		return nil, err
	}
	return beos, nil
}

func (g *GormGateway) GetBeo(u *UnitOfWork, id int64) (*Beo, error) {
	var b Beo
	if err := u.db.Preload("Department").First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBeoNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (g *GormGateway) CreateBeo(u *UnitOfWork, b *Beo) error {
	return u.db.Omit(clause.Associations).Create(b).Error
}

func (g *GormGateway) UpdateBeoDescription(u *UnitOfWork, id int64, description string) error {
	res := u.db.Model(&Beo{ID: id}).Update("description", description)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBeoNotFound
	}
	return nil
}

func (g *GormGateway) DeleteBeos(u *UnitOfWork, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return u.db.Where("id IN ?", ids).Delete(&Beo{}).Error
}

func (g *GormGateway) DeleteOrderBeos(u *UnitOfWork, orderID int64) error {
	return u.db.Where("order_id = ?", orderID).Delete(&Beo{}).Error
}

// PurgeDeleted hard-deletes orders soft-deleted before the cutoff, together
// with their assignments, and assignments soft-deleted before the cutoff.
func (g *GormGateway) PurgeDeleted(u *UnitOfWork, before time.Time) (PurgeResult, error) {
	var out PurgeResult
	stale := u.db.Unscoped().Model(&Order{}).Select("id").Where("deleted_at IS NOT NULL AND deleted_at < ?", before)

	beos := u.db.Unscoped().
		Where("(deleted_at IS NOT NULL AND deleted_at < ?) OR order_id IN (?)", before, stale).
		Delete(&Beo{})
	if beos.Error != nil {
		return out, beos.Error
	}
	out.Beos = beos.RowsAffected

	if err := u.db.Where("order_id IN (?)", stale).Delete(&OrderVenue{}).Error; err != nil {
		return out, err
	}

	orders := u.db.Unscoped().Where("deleted_at IS NOT NULL AND deleted_at < ?", before).Delete(&Order{})
	if orders.Error != nil {
		return out, orders.Error
	}
	out.Orders = orders.RowsAffected
	return out, nil
}
