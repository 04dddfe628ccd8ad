package customer

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/database"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Customer is the organizer behind one or more orders.
type Customer struct {
	ID            int64          `gorm:"primaryKey" json:"id"`
	Organizer     string         `gorm:"size:255;not null" json:"organizer"`
	Address       string         `gorm:"size:500" json:"address"`
	ContactPerson string         `gorm:"size:255" json:"contact_person"`
	Phone         string         `gorm:"size:20" json:"phone"`
	Email         string         `gorm:"size:255" json:"email"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// Request is used on its own and nested inside order forms.
type Request struct {
	Organizer     string `json:"organizer" validate:"required,max=255"`
	Address       string `json:"address" validate:"required,max=500"`
	ContactPerson string `json:"contact_person" validate:"max=255"`
	Email         string `json:"email" validate:"omitempty,email,max=255"`
	Phone         string `json:"phone" validate:"required,max=20"`
}

// Apply copies the request fields onto c.
func (r Request) Apply(c *Customer) {
	c.Organizer = r.Organizer
	c.Address = r.Address
	c.ContactPerson = r.ContactPerson
	c.Email = r.Email
	c.Phone = r.Phone
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	if err := s.db.WithContext(ctx).Order("organizer asc").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Service) Create(ctx context.Context, req Request) (*Customer, error) {
	c := &Customer{}
	req.Apply(c)
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, req Request) (*Customer, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(c)
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// Delete soft-deletes the customer. Orders keep pointing at it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
