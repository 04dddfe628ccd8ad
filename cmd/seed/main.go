package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"venuebook/internal/config"
	"venuebook/internal/database"
	"venuebook/internal/domain/customer"
	"venuebook/internal/domain/department"
	"venuebook/internal/domain/order"
	"venuebook/internal/domain/reservation"
	"venuebook/internal/domain/venue"
	"venuebook/internal/logger"
	jwtsvc "venuebook/internal/pkg/jwt"
)

func intPtr(v int) *int { return &v }

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := order.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// ================== VENUES ==================
	log.Println("Seeding venues...")
	venues := []venue.Venue{
		{Name: "Grand Ballroom", Description: "Main hall with stage", DimensionM: "40 x 25", DimensionF: "131 x 82",
			SetupBanquet: intPtr(600), SetupClassroom: intPtr(450), SetupTheater: intPtr(900), SetupReception: intPtr(1000)},
		{Name: "Ballroom A", Description: "West third of the ballroom", DimensionM: "13 x 25", DimensionF: "43 x 82",
			SetupBanquet: intPtr(200), SetupClassroom: intPtr(150), SetupTheater: intPtr(300), SetupReception: intPtr(330)},
		{Name: "Ballroom B", Description: "East third of the ballroom", DimensionM: "13 x 25", DimensionF: "43 x 82",
			SetupBanquet: intPtr(200), SetupClassroom: intPtr(150), SetupTheater: intPtr(300), SetupReception: intPtr(330)},
		{Name: "Exhibition Hall", Description: "Ground floor, truck access", DimensionM: "60 x 40", DimensionF: "197 x 131"},
		{Name: "Meeting Room 1", DimensionM: "8 x 6", DimensionF: "26 x 20",
			SetupClassroom: intPtr(24), SetupTheater: intPtr(40)},
	}
	if err := upsertByName(db, &venues); err != nil {
		log.Fatal("seed venues failed:", err)
	}

	// ================== DEPARTMENTS ==================
	log.Println("Seeding departments...")
	departments := []department.Department{
		{Name: "Kitchen"},
		{Name: "Audio Visual"},
		{Name: "Security"},
		{Name: "Housekeeping"},
		{Name: "Engineering"},
	}
	for i := range departments {
		if err := db.Where(department.Department{Name: departments[i].Name}).FirstOrCreate(&departments[i]).Error; err != nil {
			log.Fatal("seed departments failed:", err)
		}
	}

	// ================== ORDERS ==================
	var existing int64
	if err := db.Model(&order.Order{}).Count(&existing).Error; err != nil {
		log.Fatal(err)
	}
	if existing == 0 {
		log.Println("Seeding sample orders...")
		svc := order.NewService(order.NewGateway(db), logger.Nop())
		if err := seedOrders(svc, venues, departments); err != nil {
			log.Fatal("seed orders failed:", err)
		}
	}

	// ================== TOKENS ==================
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	admin, err := j.GenerateToken(1, jwtsvc.RoleAdmin)
	if err != nil {
		log.Fatal(err)
	}
	staff, err := j.GenerateToken(2, jwtsvc.RoleStaff)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Seed completed.")
	fmt.Printf("Admin token (%s): %s\n", cfg.JWTTTL, admin)
	fmt.Printf("Staff token (%s): %s\n", cfg.JWTTTL, staff)
}

func upsertByName(db *gorm.DB, venues *[]venue.Venue) error {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "dimension_m", "dimension_f", "updated_at"}),
	}).Create(venues).Error
	if err != nil {
		return err
	}
	for i := range *venues {
		if err := db.Where("name = ?", (*venues)[i].Name).First(&(*venues)[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedOrders(svc *order.Service, venues []venue.Venue, departments []department.Department) error {
	ctx := context.Background()
	month := reservation.MonthOf(time.Now())
	day := func(m reservation.Month, d int) string {
		return m.Start().AddDate(0, 0, d-1).Format(reservation.DateLayout)
	}
	dept := func(i int) *int64 { return &departments[i].ID }

	samples := []order.OrderRequest{
		{
			EventName: "Tech Expo",
			Customer: customer.Request{
				Organizer: "Northwind Events", Address: "12 Harbour Rd", ContactPerson: "Dana Lee",
				Email: "dana@northwind.example", Phone: "555-0101",
			},
			Venues:      []int64{venues[0].ID, venues[3].ID},
			LoadStart:   day(month, 3),
			LoadEnd:     day(month, 4),
			ShowStart:   day(month, 5),
			ShowEnd:     day(month, 7),
			UnloadStart: day(month, 8),
			UnloadEnd:   day(month, 8),
			Beos: []order.BeoEntry{
				{DepartmentID: dept(0), Description: "Coffee breaks, 800 pax"},
				{DepartmentID: dept(1), Description: "Main stage PA and two screens"},
				{DepartmentID: dept(2), Description: "Overnight guard for exhibits"},
			},
		},
		{
			EventName: "Annual Gala",
			Customer: customer.Request{
				Organizer: "Contoso Foundation", Address: "8 Park Ave", Phone: "555-0144",
			},
			Venues:      []int64{venues[1].ID, venues[2].ID},
			ShowStart:   day(month, 20),
			ShowEnd:     day(month, 20),
			UnloadStart: day(month, 21),
			UnloadEnd:   day(month, 21),
			Beos: []order.BeoEntry{
				{DepartmentID: dept(0), Description: "Plated dinner, 350 pax"},
				{DepartmentID: dept(3), Description: "Turnover after dinner"},
			},
		},
		{
			EventName: "Board Meeting",
			Customer: customer.Request{
				Organizer: "Fabrikam Ltd", Address: "3 Mill Lane", Phone: "555-0170",
			},
			Venues:    []int64{venues[4].ID},
			ShowStart: day(month.Next(), 2),
			ShowEnd:   day(month.Next(), 2),
		},
	}

	for i, req := range samples {
		o, err := svc.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("order %d: %w", i, err)
		}
		log.Printf("Order #%d created: %s", o.ID, o.EventName)
		if i == 0 {
			if _, err := svc.AdvanceStatus(ctx, o.ID, reservation.StatusConfirmed); err != nil {
				return err
			}
		}
	}
	return nil
}
