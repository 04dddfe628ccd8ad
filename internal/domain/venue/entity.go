package venue

import (
	"time"

	"gorm.io/gorm"
)

const (
	PhotoDir     = "venues/photo"
	FloorPlanDir = "venues/floor_plan"
)

// Venue is a bookable hall. Photo and FloorPlan hold storage paths, never
// URLs.
type Venue struct {
	ID             int64          `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	DimensionM     string         `gorm:"size:100" json:"dimension_m"`
	DimensionF     string         `gorm:"size:100" json:"dimension_f"`
	SetupBanquet   *int           `json:"setup_banquet"`
	SetupClassroom *int           `json:"setup_classroom"`
	SetupTheater   *int           `json:"setup_theater"`
	SetupReception *int           `json:"setup_reception"`
	Photo          string         `gorm:"size:500" json:"-"`
	FloorPlan      string         `gorm:"size:500" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Venue) TableName() string {
	return "venues"
}
