package dto

// ── Dashboards ──

// StudentRegistrationItem a row of the student dashboard.
type StudentRegistrationItem struct {
	RegistrationID    int64  `json:"registration_id"`
	EventID           int64  `json:"event_id"`
	EventName         string `json:"event_name"`
	EventDate         string `json:"event_date"`
	Location          string `json:"location"`
	Attendance        string `json:"attendance"`
	CertificateStatus string `json:"certificate_status"`
	CanCancel         bool   `json:"can_cancel"`
	FeedbackSubmitted bool   `json:"feedback_submitted"`
	ODStatus          string `json:"od_status"`
}

// StudentDashboardResponse student dashboard.
type StudentDashboardResponse struct {
	Student           AccountResponse           `json:"student"`
	Registrations     []StudentRegistrationItem `json:"registrations"`
	TotalRegistered   int                       `json:"total_registered"`
	TotalAttended     int                       `json:"total_attended"`
	ParticipationRate float64                   `json:"participation_rate"`
	Unread            int64                     `json:"unread_notifications"`
}

// EventAttendanceItem per-event attendance figures.
type EventAttendanceItem struct {
	EventID       int64  `json:"event_id"`
	EventName     string `json:"event_name"`
	EventDate     string `json:"event_date"`
	Location      string `json:"location"`
	Status        string `json:"status"`
	Registrations int64  `json:"registrations"`
	Attended      int64  `json:"attended"`
	Percentage    int    `json:"percentage"`
}

// FacultyDashboardResponse faculty dashboard.
type FacultyDashboardResponse struct {
	Events             []EventAttendanceItem `json:"events"`
	TotalRegistrations int64                 `json:"total_registrations"`
	TotalAttended      int64                 `json:"total_attended"`
	AttendanceRate     float64               `json:"attendance_rate"`
	Unread             int64                 `json:"unread_notifications"`
}

// AdminDashboardResponse admin dashboard.
type AdminDashboardResponse struct {
	Students      int64                 `json:"students"`
	Faculty       int64                 `json:"faculty"`
	Events        int64                 `json:"events"`
	Registrations int64                 `json:"registrations"`
	PendingOnDuty int64                 `json:"pending_onduty"`
	Analytics     []EventAttendanceItem `json:"analytics"`
}
