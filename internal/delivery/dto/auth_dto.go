package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// LoginRequest accepts either the username or the e-mail address in Login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken        string        `json:"access_token"`
	RefreshToken       string        `json:"refresh_token"`
	ExpiresIn          int64         `json:"expires_in"`
	MustChangePassword bool          `json:"must_change_password"`
	User               *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	FullName           string    `json:"full_name"`
	Position           string    `json:"position,omitempty"`
	Profession         string    `json:"profession,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	RoleID             int       `json:"role_id"`
	Role               string    `json:"role"`
	IsActive           bool      `json:"is_active"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
