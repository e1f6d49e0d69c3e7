package models

import (
	"time"

	"gorm.io/gorm"
)

type ManagerStatus string

const (
	ManagerActive   ManagerStatus = "active"
	ManagerInactive ManagerStatus = "inactive"
)

type Manager struct {
	ID        string        `gorm:"size:36;primaryKey" json:"id"`
	Name      string        `gorm:"size:255;not null" json:"name"`
	Email     string        `gorm:"size:255;index" json:"email"`
	Phone     string        `gorm:"size:50" json:"phone"`
	City      string        `gorm:"size:100" json:"city"`
	Status    ManagerStatus `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (Manager) TableName() string { return "managers" }

func (m *Manager) BeforeCreate(tx *gorm.DB) error {
	newID(&m.ID)
	if m.Status == "" {
		m.Status = ManagerActive
	}
	return nil
}
