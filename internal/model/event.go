package model

import "gorm.io/datatypes"

// EventStatus registration gate of an event.
type EventStatus string

const (
	EventOpen   EventStatus = "Open"
	EventClosed EventStatus = "Closed"
)

// Valid reports whether s is Open or Closed.
func (s EventStatus) Valid() bool {
	return s == EventOpen || s == EventClosed
}

// Event events table.
type Event struct {
	ID            int64          `gorm:"primaryKey"                          json:"id"`
	Name          string         `gorm:"type:varchar(200);not null"          json:"name"`
	Date          datatypes.Date `gorm:"column:event_date;not null"          json:"event_date"`
	Location      string         `gorm:"type:varchar(200);not null"          json:"location"`
	Description   string         `gorm:"type:text;not null"                  json:"description"`
	CoordinatorID *int64         `gorm:"index"                               json:"coordinator_id,omitempty"`
	Status        EventStatus    `gorm:"type:varchar(10);not null;default:Open" json:"status"`
	BaseModel

	Coordinator *Faculty `gorm:"foreignKey:CoordinatorID" json:"coordinator,omitempty"`
}

// TableName table name.
func (Event) TableName() string { return "events" }

// EventStats registration counters per event.
type EventStats struct {
	EventID       int64          `json:"event_id"`
	EventName     string         `json:"event_name"`
	EventDate     datatypes.Date `json:"event_date"`
	Location      string         `json:"location"`
	Status        EventStatus    `json:"status"`
	Registrations int64          `json:"registrations"`
	Attended      int64          `json:"attended"`
}
