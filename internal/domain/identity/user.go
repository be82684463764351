package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// Role distinguishes console users
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLandlord Role = "landlord"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleLandlord
}

// User is a console account
type User struct {
	shared.BaseAggregateRoot
	Email        string     `gorm:"size:200;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:100;not null" json:"-"`
	DisplayName  string     `gorm:"size:200;not null" json:"display_name"`
	Role         Role       `gorm:"size:20;not null;default:'admin'" json:"role"`
	LandlordID   *uuid.UUID `gorm:"type:uuid;index" json:"landlord_id,omitempty"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user with a bcrypt password hash
func NewUser(email, password, displayName string, role Role) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, shared.NewDomainError("INVALID_USER", "Email is required")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_USER", "Password must be at least 8 characters")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER", "Invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.TrimSpace(strings.ToLower(email)),
		PasswordHash:      string(hash),
		DisplayName:       strings.TrimSpace(displayName),
		Role:              role,
		Active:            true,
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword verifies the current password and stores a new hash
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if len(next) < 8 {
		return shared.NewDomainError("INVALID_USER", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.IncrementVersion()
	return nil
}

// LinkLandlord attaches a landlord identity to the account
func (u *User) LinkLandlord(landlordID uuid.UUID) {
	id := landlordID
	u.LandlordID = &id
	u.Role = RoleLandlord
	u.IncrementVersion()
}

// UserRepository defines the persistence interface for users
type UserRepository interface {
	shared.Repository[User]
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByLandlordID(ctx context.Context, landlordID uuid.UUID) (*User, error)
}
