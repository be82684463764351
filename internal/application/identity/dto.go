package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/nyumbani/backend/internal/domain/identity"
	"github.com/nyumbani/backend/internal/infrastructure/auth"
)

// LoginRequest is a credential login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest rotates the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ReauthRequest re-checks the caller's password for a step-up token
type ReauthRequest struct {
	Password string `json:"password" binding:"required"`
}

// RegisterUserRequest creates a console account
type RegisterUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=200"`
	Role        string `json:"role" binding:"required,oneof=admin landlord"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	LandlordID  *uuid.UUID `json:"landlord_id,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LoginResponse carries the token pair and the logged-in user
type LoginResponse struct {
	User   UserResponse   `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}

// ReauthResponse carries a short-lived step-up token
type ReauthResponse struct {
	ReauthToken string    `json:"reauth_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ToUserResponse maps a domain user to its response shape
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		LandlordID:  u.LandlordID,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
	}
}
