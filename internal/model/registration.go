package model

// Attendance values. A NULL column means absent.
const AttendancePresent = "Present"

// Certificate lifecycle values. A NULL column means none.
const (
	CertificatePending  = "Pending"
	CertificateApproved = "Approved"
)

// Registration registrations table. One row per (student, event).
type Registration struct {
	ID                int64   `gorm:"primaryKey"                         json:"id"`
	StudentID         int64   `gorm:"not null;uniqueIndex:uq_registrations_student_event" json:"student_id"`
	EventID           int64   `gorm:"not null;uniqueIndex:uq_registrations_student_event" json:"event_id"`
	QRToken           string  `gorm:"column:qr_token;type:varchar(64);not null;unique" json:"-"`
	Attendance        *string `gorm:"type:varchar(10)"                   json:"attendance"`
	CertificateStatus *string `gorm:"type:varchar(10)"                   json:"certificate_status"`
	BaseModel

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Event   *Event   `gorm:"foreignKey:EventID"   json:"event,omitempty"`
}

// TableName table name.
func (Registration) TableName() string { return "registrations" }

// IsPresent reports whether attendance was marked.
func (r *Registration) IsPresent() bool {
	return r.Attendance != nil && *r.Attendance == AttendancePresent
}

// Certificate returns the certificate status, "" when none.
func (r *Registration) Certificate() string {
	if r.CertificateStatus == nil {
		return ""
	}
	return *r.CertificateStatus
}
