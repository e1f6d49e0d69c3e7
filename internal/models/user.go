package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a login account. ProfileID links a manager account to its Manager
// row; tenants are resolved by email instead.
type User struct {
	ID        string         `gorm:"size:36;primaryKey" json:"id"`
	Email     string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      string         `gorm:"size:20;not null;default:'tenant'" json:"role"`
	ProfileID *string        `gorm:"size:36;index" json:"profile_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}
