package venue

import (
	"context"

	"gorm.io/gorm"

	"venuebook/internal/database"
)

type Repository interface {
	Create(ctx context.Context, v *Venue) error
	Update(ctx context.Context, v *Venue) error
	GetByID(ctx context.Context, id int64) (*Venue, error)
	List(ctx context.Context) ([]Venue, error)
	Delete(ctx context.Context, id int64) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, v *Venue) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *GormRepository) Update(ctx context.Context, v *Venue) error {
	return translate(r.db.WithContext(ctx).Save(v).Error)
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*Venue, error) {
	var v Venue
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *GormRepository) List(ctx context.Context) ([]Venue, error) {
	var venues []Venue
	if err := r.db.WithContext(ctx).Order("name asc").Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Venue{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFound(err):
		return ErrVenueNotFound
	case database.IsUniqueViolation(err):
		return ErrVenueNameTaken
	default:
		return err
	}
}
