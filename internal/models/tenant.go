package models

import (
	"time"

	"gorm.io/gorm"
)

type TenantStatus string

const (
	TenantActive   TenantStatus = "active"
	TenantInactive TenantStatus = "inactive"
)

// Tenant is a resident. An active tenant with a UnitID occupies that unit.
type Tenant struct {
	ID         string       `gorm:"size:36;primaryKey" json:"id"`
	Name       string       `gorm:"size:255;not null" json:"name"`
	Email      string       `gorm:"size:255;index" json:"email"`
	Phone      string       `gorm:"size:50" json:"phone"`
	NationalID *string      `gorm:"size:50" json:"national_id,omitempty"`
	UnitID     *string      `gorm:"size:36;index" json:"unit_id"`
	Status     TenantStatus `gorm:"size:20;default:'active'" json:"status"`
	EntryDate  *time.Time   `gorm:"type:date" json:"entry_date"`
	RentDueDay int          `gorm:"default:1" json:"rent_due_day"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (Tenant) TableName() string { return "tenants" }

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	if t.Status == "" {
		t.Status = TenantActive
	}
	return nil
}

// Occupies reports whether the tenant currently holds a unit.
func (t Tenant) Occupies() bool {
	return t.Status == TenantActive && t.UnitID != nil && *t.UnitID != ""
}
