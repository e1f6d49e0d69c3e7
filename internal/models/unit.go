package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UnitStatus string

const (
	UnitVacant   UnitStatus = "vacant"
	UnitOccupied UnitStatus = "occupied"
)

// Unit is a rentable unit inside a Property. Status is recomputed from the
// tenant set on every refresh; the stored value is advisory only.
type Unit struct {
	ID          string          `gorm:"size:36;primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	PropertyID  string          `gorm:"size:36;not null;index" json:"property_id"`
	MonthlyRent decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"monthly_rent"`
	Status      UnitStatus      `gorm:"size:20;default:'vacant'" json:"status"`
	Bedrooms    *int            `json:"bedrooms,omitempty"`
	Bathrooms   *int            `json:"bathrooms,omitempty"`
	SizeSqm     *float64        `json:"size_sqm,omitempty"`
	FloorNumber *int            `json:"floor_number,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Unit) TableName() string { return "units" }

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	if u.Status == "" {
		u.Status = UnitVacant
	}
	return nil
}
