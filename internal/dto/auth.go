package dto

// ── Auth ──

// LoginRequest login. Faculty sign in by email, students by register number.
type LoginRequest struct {
	Role       string `json:"role"       binding:"required,oneof=student faculty"`
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password"   binding:"required"`
}

// RefreshTokenRequest refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RegisterStudentRequest student self-registration.
type RegisterStudentRequest struct {
	Name            string `json:"name"             binding:"required,max=100"`
	RegisterNumber  string `json:"register_number"  binding:"required,max=40"`
	Email           string `json:"email"            binding:"required,email"`
	Department      string `json:"department"       binding:"required,max=80"`
	Semester        int    `json:"semester"         binding:"required,min=1,max=8"`
	Password        string `json:"password"         binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ChangePasswordRequest change own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password"     binding:"required,min=8,max=72"`
}

// ForgotPasswordRequest request a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest set a new password with a reset token.
type ResetPasswordRequest struct {
	Password        string `json:"password"         binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// TokenResponse token pair.
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         AccountResponse `json:"user"`
}
