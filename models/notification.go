package models

import "time"

// Notification is immutable once created except for the read flag.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:255" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Link      *string   `gorm:"size:255" json:"link,omitempty"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
