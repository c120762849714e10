package dto

import "time"

// SignupRequest starts a registration with an email address.
type SignupRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyCodeRequest confirms the 4-digit code sent to the email.
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=4,numeric"`
}

// ResendCodeRequest asks for a new verification code.
type ResendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CompleteRegistrationRequest finishes a verified registration.
type CompleteRegistrationRequest struct {
	Email           string     `json:"email" binding:"required,email"`
	Username        string     `json:"username" binding:"required,min=3,max=150"`
	Password        string     `json:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string     `json:"confirmPassword" binding:"required,eqfield=Password"`
	FirstName       string     `json:"firstName" binding:"max=150"`
	LastName        string     `json:"lastName" binding:"max=150"`
	PhoneNumber     string     `json:"phoneNumber" binding:"max=20"`
	DateOfBirth     *time.Time `json:"dateOfBirth"`
}

// LoginRequest accepts either a username or an email as the login.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries a refresh token for rotation or revocation.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// GoogleExchangeCodeRequest carries the authorization code from the Google redirect.
type GoogleExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// RefreshTokenResponse represents the response for a successful token refresh.
type RefreshTokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// GoogleLoginURLResponse is the URL the frontend should redirect to.
type GoogleLoginURLResponse struct {
	URL string `json:"url"`
}
