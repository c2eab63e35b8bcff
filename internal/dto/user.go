package dto

// ── Users ──

// AccountResponse a student or faculty account without credentials.
type AccountResponse struct {
	ID             int64  `json:"id"`
	Role           string `json:"role"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Department     string `json:"department"`
	IsAdmin        bool   `json:"is_admin"`
	RegisterNumber string `json:"register_number,omitempty"`
	Semester       int    `json:"semester,omitempty"`
}

// UserListResponse admin user listing.
type UserListResponse struct {
	Students []AccountResponse `json:"students"`
	Faculty  []AccountResponse `json:"faculty"`
}

// RegisterFacultyRequest admin adds a faculty member.
type RegisterFacultyRequest struct {
	Name       string `json:"name"       binding:"required,max=100"`
	Email      string `json:"email"      binding:"required,email"`
	Department string `json:"department" binding:"required,max=80"`
	Password   string `json:"password"   binding:"required,min=8,max=72"`
}

// UpdateStudentRequest admin edits a student.
type UpdateStudentRequest struct {
	Name       string `json:"name"       binding:"required,max=100"`
	Email      string `json:"email"      binding:"required,email"`
	Department string `json:"department" binding:"required,max=80"`
	Semester   int    `json:"semester"   binding:"required,min=1,max=8"`
}

// UpdateFacultyRequest admin edits a faculty member.
type UpdateFacultyRequest struct {
	Name       string `json:"name"       binding:"required,max=100"`
	Email      string `json:"email"      binding:"required,email"`
	Department string `json:"department" binding:"required,max=80"`
	IsAdmin    *bool  `json:"is_admin"`
}

// ImportStudentsResponse bulk import result.
type ImportStudentsResponse struct {
	Total   int           `json:"total"`
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Errors  []ImportError `json:"errors,omitempty"`
}

// ImportError a rejected import row.
type ImportError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
