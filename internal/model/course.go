package model

// Course courses table.
type Course struct {
	ID         int64  `gorm:"primaryKey"                json:"id"`
	Name       string `gorm:"type:varchar(160);not null" json:"name"`
	Department string `gorm:"type:varchar(80);not null"  json:"department"`
	Semester   int    `gorm:"type:smallint;not null"     json:"semester"`
	BaseModel
}

// TableName table name.
func (Course) TableName() string { return "courses" }
