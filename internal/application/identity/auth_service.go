package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nyumbani/backend/internal/domain/identity"
	"github.com/nyumbani/backend/internal/domain/shared"
	"github.com/nyumbani/backend/internal/infrastructure/auth"
)

// AuthService handles console authentication
type AuthService struct {
	users  identity.UserRepository
	jwt    *auth.JWTService
	logger *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users identity.UserRepository, jwt *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, logger: logger}
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}
	if !u.Active {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "This account has been disabled")
	}
	if !u.VerifyPassword(req.Password) {
		s.logger.Warn("failed login attempt", zap.String("email", req.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokens, err := s.jwt.GenerateTokenPair(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{User: ToUserResponse(u), Tokens: *tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*LoginResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if !u.Active {
		return nil, shared.ErrUnauthorized
	}

	tokens, err := s.jwt.GenerateTokenPair(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResponse{User: ToUserResponse(u), Tokens: *tokens}, nil
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// ChangePassword rotates the caller's password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return s.users.Save(ctx, u)
}

// Reauth re-checks the caller's password and issues a short-lived step-up
// token. Destructive operations require this token on top of the session.
func (s *AuthService) Reauth(ctx context.Context, userID uuid.UUID, req ReauthRequest) (*ReauthResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.VerifyPassword(req.Password) {
		s.logger.Warn("failed reauth attempt", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Password is incorrect")
	}

	token, expiresAt, err := s.jwt.GenerateReauthToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &ReauthResponse{ReauthToken: token, ExpiresAt: expiresAt}, nil
}

// Register creates a console account
func (s *AuthService) Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	if existing, err := s.users.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	} else if err != nil && err != shared.ErrNotFound {
		return nil, err
	}

	u, err := identity.NewUser(req.Email, req.Password, req.DisplayName, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)))

	resp := ToUserResponse(u)
	return &resp, nil
}
