package order

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"venuebook/internal/domain/customer"
	"venuebook/internal/domain/reservation"
	"venuebook/internal/logger"
	"venuebook/internal/pkg/validator"
)

// farFuture bounds the dashboard's open-ended lookup.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

type Service struct {
	gw  Gateway
	log *logger.Logger
	now func() time.Time
}

func NewService(gw Gateway, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{gw: gw, log: log, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.gw.ListOrders(s.gw.Snapshot(ctx))
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.gw.GetOrder(s.gw.Snapshot(ctx), id)
}

// Create writes the customer, the order, its venue links and its BEOs in one
// transaction. Nothing is written when validation fails.
func (s *Service) Create(ctx context.Context, req OrderRequest) (*Order, error) {
	d, err := s.validate(ctx, &req)
	if err != nil {
		return nil, err
	}

	uow, err := s.gw.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	c := &customer.Customer{}
	d.customer.Apply(c)
	if err := s.gw.CreateCustomer(uow, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	o := &Order{CustomerID: c.ID, Status: reservation.StatusNewInquiry}
	d.applyTo(o)
	if err := s.gw.CreateOrder(uow, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if _, err := s.gw.SyncOrderVenues(uow, o.ID, d.venueIDs); err != nil {
		return nil, fmt.Errorf("link venues: %w", err)
	}
	for i := range d.beos {
		b := d.beos[i]
		b.OrderID = o.ID
		if err := s.gw.CreateBeo(uow, &b); err != nil {
			return nil, fmt.Errorf("create assignment: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.log.LogOrder("CREATE", o.ID, fmt.Sprintf("%s, %d venue(s), %d assignment(s)", o.EventName, len(d.venueIDs), len(d.beos)))
	return s.gw.GetOrder(s.gw.Snapshot(ctx), o.ID)
}

// Update replaces the order's fields, customer details and venue set, and
// refreshes its BEOs so that exactly the submitted entries remain.
func (s *Service) Update(ctx context.Context, id int64, req OrderRequest) (*Order, error) {
	d, err := s.validate(ctx, &req)
	if err != nil {
		return nil, err
	}

	uow, err := s.gw.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	o, err := s.gw.GetOrder(uow, id)
	if err != nil {
		return nil, err
	}

	c := &customer.Customer{ID: o.CustomerID}
	d.customer.Apply(c)
	if err := s.gw.UpdateCustomer(uow, c); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}

	d.applyTo(o)
	if err := s.gw.UpdateOrder(uow, o); err != nil {
		return nil, err
	}
	venues, err := s.gw.SyncOrderVenues(uow, id, d.venueIDs)
	if err != nil {
		return nil, fmt.Errorf("sync venues: %w", err)
	}
	added, removed, err := s.refreshBeos(uow, id, d.beos)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.log.LogOrder("UPDATE", id, fmt.Sprintf("venues +%d -%d, assignments +%d -%d",
		len(venues.ToAdd), len(venues.ToRemove), added, removed))
	return s.gw.GetOrder(s.gw.Snapshot(ctx), id)
}

// refreshBeos reconciles stored assignments against the desired ones by
// (department, description). Matching rows are left untouched.
func (s *Service) refreshBeos(uow *UnitOfWork, orderID int64, desired []Beo) (int, int, error) {
	if len(desired) == 0 {
		existing, err := s.gw.ListOrderBeos(uow, orderID)
		if err != nil {
			return 0, 0, err
		}
		if err := s.gw.DeleteOrderBeos(uow, orderID); err != nil {
			return 0, 0, fmt.Errorf("clear assignments: %w", err)
		}
		return 0, len(existing), nil
	}

	existing, err := s.gw.ListOrderBeos(uow, orderID)
	if err != nil {
		return 0, 0, err
	}
	current := make([]beoKey, 0, len(existing))
	for _, b := range existing {
		current = append(current, b.key())
	}
	want := make([]beoKey, 0, len(desired))
	for _, b := range desired {
		want = append(want, b.key())
	}
	diff := reservation.Reconcile(current, want)

	toRemove := make(map[beoKey]int, len(diff.ToRemove))
	for _, k := range diff.ToRemove {
		toRemove[k]++
	}
	var ids []int64
	for _, b := range existing {
		if toRemove[b.key()] > 0 {
			toRemove[b.key()]--
			ids = append(ids, b.ID)
		}
	}
	if err := s.gw.DeleteBeos(uow, ids); err != nil {
		return 0, 0, fmt.Errorf("remove assignments: %w", err)
	}

	for _, k := range diff.ToAdd {
		b := Beo{OrderID: orderID, DepartmentID: k.DepartmentID, Description: k.Description}
		if err := s.gw.CreateBeo(uow, &b); err != nil {
			return 0, 0, fmt.Errorf("create assignment: %w", err)
		}
	}
	return len(diff.ToAdd), len(ids), nil
}

// Destroy detaches the order from its venues and soft-deletes it. BEOs and
// the customer are kept.
func (s *Service) Destroy(ctx context.Context, id int64) error {
	uow, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := s.gw.GetOrder(uow, id); err != nil {
		return err
	}
	if err := s.gw.DetachOrderVenues(uow, id); err != nil {
		return fmt.Errorf("detach venues: %w", err)
	}
	if err := s.gw.SoftDeleteOrder(uow, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	s.log.LogOrder("DELETE", id, "order removed")
	return nil
}

// AdvanceStatus moves the order forward in its lifecycle. Setting the current
// status again is a no-op.
func (s *Service) AdvanceStatus(ctx context.Context, id int64, target reservation.Status) (*Order, error) {
	uow, err := s.gw.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	o, err := s.gw.GetOrder(uow, id)
	if err != nil {
		return nil, err
	}
	next, err := o.Status.Advance(target)
	if err != nil {
		return nil, err
	}
	if next != o.Status {
		if err := s.gw.UpdateOrderStatus(uow, id, next); err != nil {
			return nil, err
		}
		s.log.LogOrder("STATUS", id, o.Status.String()+" -> "+next.String())
		o.Status = next
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return o, nil
}

// Availability returns, per requested venue, the day intervals taken by other
// orders. exclude is the order being edited, if any.
func (s *Service) Availability(ctx context.Context, venueIDs []int64, exclude *int64) (reservation.Index, error) {
	uow := s.gw.Snapshot(ctx)
	ids := reservation.UniqueIDs(venueIDs)

	seen := make(map[int64]struct{})
	var snapshot []reservation.Booking
	for _, vid := range ids {
		orders, err := s.gw.FindOrdersForVenue(uow, vid, exclude)
		if err != nil {
			return nil, err
		}
		for i := range orders {
			if _, ok := seen[orders[i].ID]; ok {
				continue
			}
			seen[orders[i].ID] = struct{}{}
			snapshot = append(snapshot, orders[i].Booking())
		}
	}
	return reservation.BuildIndex(ids, snapshot, exclude), nil
}

func (s *Service) venueRefs(uow *UnitOfWork) ([]reservation.VenueRef, error) {
	venues, err := s.gw.ListVenues(uow)
	if err != nil {
		return nil, err
	}
	refs := make([]reservation.VenueRef, 0, len(venues))
	for _, v := range venues {
		refs = append(refs, reservation.VenueRef{ID: v.ID, Name: v.Name})
	}
	return refs, nil
}

// Calendar projects the orders of month m onto every venue.
func (s *Service) Calendar(ctx context.Context, m reservation.Month) (*CalendarView, error) {
	uow := s.gw.Snapshot(ctx)
	venues, err := s.venueRefs(uow)
	if err != nil {
		return nil, err
	}
	orders, err := s.gw.FindOrdersOverlappingMonth(uow, m.Start(), m.End())
	if err != nil {
		return nil, err
	}

	slots := reservation.BuildSlotMap(m, venues, bookings(orders))
	return &CalendarView{
		Year:   m.Year,
		Month:  m.Month,
		Prev:   m.Prev(),
		Next:   m.Next(),
		Venues: venues,
		Slots:  slots,
		Layout: reservation.BuildLayout(m, venues, slots),
	}, nil
}

// Matrix is the legacy date x venue calendar.
func (s *Service) Matrix(ctx context.Context, m reservation.Month) (*MatrixView, error) {
	uow := s.gw.Snapshot(ctx)
	venues, err := s.venueRefs(uow)
	if err != nil {
		return nil, err
	}
	orders, err := s.gw.ListOrders(uow)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(venues))
	for _, v := range venues {
		ids = append(ids, v.ID)
	}
	return &MatrixView{
		Year:   m.Year,
		Month:  m.Month,
		Prev:   m.Prev(),
		Next:   m.Next(),
		Venues: venues,
		Rows:   reservation.BuildMatrix(m, ids, bookings(orders)),
	}, nil
}

func (s *Service) Dashboard(ctx context.Context) (reservation.Summary, error) {
	today := reservation.Day(s.now())
	orders, err := s.gw.FindOrdersOverlappingMonth(s.gw.Snapshot(ctx), reservation.MonthOf(today).Start(), farFuture)
	if err != nil {
		return reservation.Summary{}, err
	}
	return reservation.Summarize(today, bookings(orders)), nil
}

func (s *Service) ListBeos(ctx context.Context, orderID int64) ([]Beo, error) {
	uow := s.gw.Snapshot(ctx)
	if _, err := s.gw.GetOrder(uow, orderID); err != nil {
		return nil, err
	}
	return s.gw.ListOrderBeos(uow, orderID)
}

func (s *Service) GetBeo(ctx context.Context, id int64) (*Beo, error) {
	return s.gw.GetBeo(s.gw.Snapshot(ctx), id)
}

// AddBeo attaches one assignment to an existing order.
func (s *Service) AddBeo(ctx context.Context, orderID int64, req BeoRequest) (*Beo, error) {
	if fields := validator.Validate(&req); fields != nil {
		return nil, newValidationError(fields)
	}
	snap := s.gw.Snapshot(ctx)
	if _, err := s.gw.GetOrder(snap, orderID); err != nil {
		return nil, err
	}
	found, err := s.gw.FindDepartmentsByIDs(snap, []int64{req.DepartmentID})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, newValidationError(map[string]string{"department_id": "exists"})
	}

	uow, err := s.gw.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	b := &Beo{OrderID: orderID, DepartmentID: req.DepartmentID, Description: req.Description}
	if err := s.gw.CreateBeo(uow, b); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.log.LogOrder("BEO", orderID, "assignment #"+strconv.FormatInt(b.ID, 10)+" added")
	return s.gw.GetBeo(s.gw.Snapshot(ctx), b.ID)
}

// UpdateBeo changes only the description of an assignment.
func (s *Service) UpdateBeo(ctx context.Context, id int64, req BeoDescriptionRequest) (*Beo, error) {
	uow, err := s.gw.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := s.gw.UpdateBeoDescription(uow, id, req.Description); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return s.gw.GetBeo(s.gw.Snapshot(ctx), id)
}

func (s *Service) DeleteBeo(ctx context.Context, id int64) error {
	uow, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	b, err := s.gw.GetBeo(uow, id)
	if err != nil {
		return err
	}
	if err := s.gw.DeleteBeos(uow, []int64{id}); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	s.log.LogOrder("BEO", b.OrderID, "assignment #"+strconv.FormatInt(id, 10)+" removed")
	return nil
}

// Purge permanently removes orders and assignments soft-deleted before the
// cutoff.
func (s *Service) Purge(ctx context.Context, before time.Time) (PurgeResult, error) {
	uow, err := s.gw.Begin(ctx)
	if err != nil {
		return PurgeResult{}, err
	}
	defer uow.Rollback()

	res, err := s.gw.PurgeDeleted(uow, before)
	if err != nil {
		return PurgeResult{}, err
	}
	if err := uow.Commit(); err != nil {
		return PurgeResult{}, err
	}
	s.log.LogDatabase("PURGE", "orders", fmt.Sprintf("orders=%d beos=%d before=%s", res.Orders, res.Beos, before.Format(time.RFC3339)))
	return res, nil
}

// validate checks the request shape, the date windows and that every
// referenced venue and department exists.
func (s *Service) validate(ctx context.Context, req *OrderRequest) (*draft, error) {
	fields := validator.Validate(req)
	if fields == nil {
		fields = make(map[string]string)
	}

	d := &draft{
		eventName:   req.EventName,
		description: req.Description,
		customer:    req.Customer,
		venueIDs:    reservation.UniqueIDs(req.Venues),
	}
	validateWindows(req, fields, &d.dates)

	var deptIDs []int64
	for _, e := range req.Beos {
		if id, ok := e.department(); ok {
			deptIDs = append(deptIDs, id)
			d.beos = append(d.beos, Beo{DepartmentID: id, Description: e.Description})
		}
	}

	snap := s.gw.Snapshot(ctx)
	if _, bad := fields["venues"]; !bad && len(d.venueIDs) > 0 {
		found, err := s.gw.FindVenuesByIDs(snap, d.venueIDs)
		if err != nil {
			return nil, err
		}
		if len(found) != len(d.venueIDs) {
			fields["venues"] = "exists"
		}
	}
	if len(deptIDs) > 0 {
		found, err := s.gw.FindDepartmentsByIDs(snap, reservation.UniqueIDs(deptIDs))
		if err != nil {
			return nil, err
		}
		known := make(map[int64]bool, len(found))
		for _, dep := range found {
			known[dep.ID] = true
		}
		for i, e := range req.Beos {
			if id, ok := e.department(); ok && !known[id] {
				fields[fmt.Sprintf("beos[%d].department_id", i)] = "exists"
			}
		}
	}

	if err := newValidationError(fields); err != nil {
		return nil, err
	}
	return d, nil
}

// validateWindows requires both bounds of a window together, end on or after
// start, and at least one complete window.
func validateWindows(req *OrderRequest, fields map[string]string, dates *[6]Date) {
	complete := 0
	windowErrors := false
	for i, w := range req.windowInputs() {
		startKey, endKey := string(w.typ)+"_start", string(w.typ)+"_end"
		if fields[startKey] != "" || fields[endKey] != "" {
			windowErrors = true
			continue
		}
		switch {
		case w.start == "" && w.end == "":
			continue
		case w.start == "":
			fields[startKey] = "required_with"
			windowErrors = true
			continue
		case w.end == "":
			fields[endKey] = "required_with"
			windowErrors = true
			continue
		}

		start, err := ParseDate(w.start)
		if err != nil {
			fields[startKey] = "datetime"
			windowErrors = true
			continue
		}
		end, err := ParseDate(w.end)
		if err != nil {
			fields[endKey] = "datetime"
			windowErrors = true
			continue
		}
		if end.Time.Before(start.Time) {
			fields[endKey] = "gtefield"
			windowErrors = true
			continue
		}
		dates[2*i], dates[2*i+1] = start, end
		complete++
	}
	if complete == 0 && !windowErrors {
		fields["windows"] = "required"
	}
}
