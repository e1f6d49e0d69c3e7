package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property is a managed building. Its unit count is derived from Unit rows
// and is never stored.
type Property struct {
	ID        string                      `gorm:"size:36;primaryKey" json:"id"`
	Name      string                      `gorm:"size:255;not null" json:"name"`
	Address   string                      `gorm:"size:255" json:"address"`
	City      string                      `gorm:"size:100" json:"city"`
	State     string                      `gorm:"size:100" json:"state"`
	Zip       string                      `gorm:"size:20" json:"zip"`
	ManagerID string                      `gorm:"size:36;not null;index" json:"manager_id"`
	Amenities datatypes.JSONSlice[string] `json:"amenities"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (Property) TableName() string { return "properties" }

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	return nil
}
