package model

import (
	"time"

	"gorm.io/datatypes"
)

// Weekdays teaching days in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WeekdayIndex position of day in Weekdays, -1 when unknown.
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// TimetableSlot timetable table. Slots of one faculty on one day never overlap.
type TimetableSlot struct {
	ID        int64          `gorm:"primaryKey"                json:"id"`
	CourseID  int64          `gorm:"not null"                  json:"course_id"`
	FacultyID int64          `gorm:"not null"                  json:"faculty_id"`
	Day       string         `gorm:"type:varchar(10);not null" json:"day"`
	StartTime datatypes.Time `gorm:"type:time;not null"        json:"start_time"`
	EndTime   datatypes.Time `gorm:"type:time;not null"        json:"end_time"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Course  *Course  `gorm:"foreignKey:CourseID"  json:"course,omitempty"`
	Faculty *Faculty `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
}

// TableName table name.
func (TimetableSlot) TableName() string { return "timetable" }

// Overlaps reports whether [start, end) intersects the slot.
func (s *TimetableSlot) Overlaps(start, end datatypes.Time) bool {
	return s.StartTime < end && s.EndTime > start
}
