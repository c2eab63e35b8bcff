package model

import "time"

// Feedback feedback table. One row per (student, event).
type Feedback struct {
	ID        int64     `gorm:"primaryKey"                         json:"id"`
	StudentID int64     `gorm:"not null"                           json:"student_id"`
	EventID   int64     `gorm:"not null"                           json:"event_id"`
	Rating    int       `gorm:"type:smallint;not null"             json:"rating"`
	Comments  string    `gorm:"type:text;not null"                 json:"comments"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Event   *Event   `gorm:"foreignKey:EventID"   json:"event,omitempty"`
}

// TableName table name.
func (Feedback) TableName() string { return "feedback" }
