package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SystemLog stores ERROR+ log records so failed syncs and writes can be
// queried after the fact.
type SystemLog struct {
	ID        string         `gorm:"size:36;primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Level     string         `gorm:"size:10;not null;index" json:"level"`
	Message   string         `gorm:"type:text" json:"message"`
	Table     string         `gorm:"column:entity_table;size:50;index" json:"table"`
	Op        string         `gorm:"size:20" json:"op"`
	UserID    *string        `gorm:"size:36" json:"user_id"`
	RequestID string         `gorm:"size:36;index" json:"request_id"`
	Error     string         `gorm:"type:text" json:"error"`
	Extra     datatypes.JSON `json:"extra"`
	CreatedAt time.Time      `json:"created_at"`
}

func (l *SystemLog) BeforeCreate(tx *gorm.DB) error {
	newID(&l.ID)
	return nil
}

// All returns every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Manager{},
		&Property{},
		&Unit{},
		&Tenant{},
		&PaymentProof{},
		&Notification{},
		&User{},
		&RefreshToken{},
		&SystemLog{},
	}
}
