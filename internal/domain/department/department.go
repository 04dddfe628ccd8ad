package department

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/database"
)

var ErrDepartmentNotFound = errors.New("department not found")

type Department struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Department) TableName() string {
	return "departments"
}

type Request struct {
	Name string `json:"name" validate:"required,max=255"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context) ([]Department, error) {
	var departments []Department
	if err := s.db.WithContext(ctx).Order("name asc").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Department, error) {
	var d Department
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *Service) Create(ctx context.Context, req Request) (*Department, error) {
	d := &Department{Name: req.Name}
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, id int64, req Request) (*Department, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Name = req.Name
	if err := s.db.WithContext(ctx).Save(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&Department{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}
