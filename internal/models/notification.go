package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationReminder NotificationType = "reminder"
	NotificationAlert    NotificationType = "alert"
	NotificationInfo     NotificationType = "info"
	NotificationPayment  NotificationType = "payment"
)

// Notification belongs to one user; only IsRead changes after creation.
type Notification struct {
	ID        string           `gorm:"size:36;primaryKey" json:"id"`
	UserID    string           `gorm:"size:36;not null;index" json:"user_id"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	Type      NotificationType `gorm:"size:20;default:'info'" json:"type"`
	IsRead    bool             `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	newID(&n.ID)
	if n.Type == "" {
		n.Type = NotificationInfo
	}
	return nil
}
