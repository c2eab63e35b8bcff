package model

// On-duty request states. Approved and Rejected are terminal.
const (
	OnDutyPending  = "Pending"
	OnDutyApproved = "Approved"
	OnDutyRejected = "Rejected"
)

// OnDutyRequest onduty_requests table.
type OnDutyRequest struct {
	ID             int64  `gorm:"primaryKey"                 json:"id"`
	StudentID      int64  `gorm:"not null"                   json:"student_id"`
	EventID        int64  `gorm:"not null"                   json:"event_id"`
	RegistrationID *int64 `                                  json:"registration_id,omitempty"`
	Status         string `gorm:"type:varchar(10);not null;default:Pending" json:"status"`
	ApprovedBy     *int64 `                                  json:"approved_by,omitempty"`
	BaseModel

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Event   *Event   `gorm:"foreignKey:EventID"   json:"event,omitempty"`
}

// TableName table name.
func (OnDutyRequest) TableName() string { return "onduty_requests" }
