package model

import (
	"time"

	"gorm.io/datatypes"
)

// Exam exams table.
type Exam struct {
	ID        int64          `gorm:"primaryKey"               json:"id"`
	CourseID  int64          `gorm:"not null"                 json:"course_id"`
	Date      datatypes.Date `gorm:"column:exam_date;not null" json:"exam_date"`
	StartTime datatypes.Time `gorm:"type:time;not null"       json:"start_time"`
	EndTime   datatypes.Time `gorm:"type:time;not null"       json:"end_time"`
	Hall      string         `gorm:"type:varchar(80);not null" json:"hall"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// TableName table name.
func (Exam) TableName() string { return "exams" }
