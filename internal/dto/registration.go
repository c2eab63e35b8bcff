package dto

import "strings"

// ── Registration ──

// RegisterEventRequest registration form. Fields are checked for presence only.
type RegisterEventRequest struct {
	Name           string `json:"name"`
	RegisterNumber string `json:"register_number"`
	Email          string `json:"email"`
	Semester       string `json:"semester"`
}

// MissingField label of the first empty field, "" when complete.
func (r *RegisterEventRequest) MissingField() string {
	fields := []struct {
		label string
		value string
	}{
		{"Name", r.Name},
		{"Register number", r.RegisterNumber},
		{"Email", r.Email},
		{"Semester", r.Semester},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return f.label
		}
	}
	return ""
}

// LookupRegistrationsRequest public lookup.
type LookupRegistrationsRequest struct {
	RegisterNumber string `form:"register_number" binding:"required"`
	Email          string `form:"email"           binding:"required,email"`
}

// RegistrationResponse a registration with its event.
type RegistrationResponse struct {
	ID                int64  `json:"id"`
	EventID           int64  `json:"event_id"`
	EventName         string `json:"event_name"`
	EventDate         string `json:"event_date"`
	Location          string `json:"location"`
	Attendance        string `json:"attendance"`
	CertificateStatus string `json:"certificate_status"`
}

// ── Attendance ──

// MarkAttendanceRequest scanned token, as JSON or as the scanner's form post.
type MarkAttendanceRequest struct {
	Token string `json:"token" form:"qr_token"`
}

// AttendanceResponse result of a scan.
type AttendanceResponse struct {
	RegistrationID int64  `json:"registration_id"`
	StudentName    string `json:"student_name"`
	EventName      string `json:"event_name"`
	AlreadyMarked  bool   `json:"already_marked"`
}

// ── Certificates ──

// PendingCertificateResponse admin approval queue entry.
type PendingCertificateResponse struct {
	RegistrationID int64  `json:"registration_id"`
	StudentName    string `json:"student_name"`
	RegisterNumber string `json:"register_number"`
	EventName      string `json:"event_name"`
	EventDate      string `json:"event_date"`
}

// ── On-duty ──

// RespondOnDutyRequest approve or reject.
type RespondOnDutyRequest struct {
	Action string `json:"action" binding:"required"`
}

// OnDutyResponse on-duty request with names.
type OnDutyResponse struct {
	ID             int64  `json:"id"`
	StudentName    string `json:"student_name"`
	RegisterNumber string `json:"register_number"`
	EventName      string `json:"event_name"`
	EventDate      string `json:"event_date"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// ── Feedback ──

// SubmitFeedbackRequest feedback form.
type SubmitFeedbackRequest struct {
	Rating   int    `json:"rating"   binding:"required,min=1,max=5"`
	Comments string `json:"comments" binding:"max=2000"`
}

// FeedbackResponse feedback with names.
type FeedbackResponse struct {
	ID          int64  `json:"id"`
	StudentName string `json:"student_name"`
	EventName   string `json:"event_name"`
	Rating      int    `json:"rating"`
	Comments    string `json:"comments"`
	CreatedAt   string `json:"created_at"`
}

// ── Notifications ──

// NotificationResponse notification item.
type NotificationResponse struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// UnreadCountResponse badge count.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
