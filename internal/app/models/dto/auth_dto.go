package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"daniel@dojo.pt"`
	Password string `json:"password" binding:"required" example:"wax-on-wax-off"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"3600"`
	Role        string `json:"role" example:"Student"`
}

// ForgotPasswordRequest asks for a password reset email. Role defaults to Student.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"daniel@dojo.pt"`
	Role  string `json:"role,omitempty" binding:"omitempty,oneof=Student Admin" example:"Student"`
}

// ResetPasswordRequest sets a new password with a mailed token
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required" example:"6f1c2a9e-1b7d-4c3e-9a55-0b8f3f5d2e11"`
	NewPassword string `json:"newPassword" binding:"required,min=8" example:"crane-kick-99"`
}
