package model

import "time"

// Notification notifications table. (UserID, UserRole) addresses a student or faculty row.
type Notification struct {
	ID        int64     `gorm:"primaryKey"                         json:"id"`
	UserID    int64     `gorm:"not null"                           json:"user_id"`
	UserRole  Role      `gorm:"type:varchar(10);not null"          json:"user_role"`
	Message   string    `gorm:"type:text;not null"                 json:"message"`
	IsRead    bool      `gorm:"not null;default:false"             json:"is_read"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName table name.
func (Notification) TableName() string { return "notifications" }
