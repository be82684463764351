package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/identity"
	"github.com/nyumbani/backend/internal/infrastructure/auth"
	"github.com/nyumbani/backend/internal/infrastructure/config"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

func setupAuthService(t *testing.T) (*AuthService, *auth.JWTService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&identity.User{}))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		ReauthExpiration:       5 * time.Minute,
		Issuer:                 "nyumbani-test",
	})

	users := persistence.NewGormUserRepository(db)
	return NewAuthService(users, jwtService, zap.NewNop()), jwtService, db
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, jwtService, _ := setupAuthService(t)

	_, err := svc.Register(ctx, RegisterUserRequest{
		Email:       "admin@example.com",
		Password:    "super-secret-1",
		DisplayName: "Console Admin",
		Role:        "admin",
	})
	require.NoError(t, err)

	t.Run("issues tokens on valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "super-secret-1"})
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.Tokens.AccessToken)

		claims, err := jwtService.ValidateAccessToken(resp.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "wrong-password"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email or password")
	})

	t.Run("does not reveal whether the account exists", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever-123"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email or password")
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupAuthService(t)

	_, err := svc.Register(ctx, RegisterUserRequest{
		Email: "admin@example.com", Password: "super-secret-1", DisplayName: "Console Admin", Role: "admin",
	})
	require.NoError(t, err)

	login, err := svc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "super-secret-1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: "not-a-token"})
	assert.Error(t, err)
}

func TestAuthService_Reauth(t *testing.T) {
	ctx := context.Background()
	svc, jwtService, _ := setupAuthService(t)

	created, err := svc.Register(ctx, RegisterUserRequest{
		Email: "admin@example.com", Password: "super-secret-1", DisplayName: "Console Admin", Role: "admin",
	})
	require.NoError(t, err)

	t.Run("issues a step-up token on a fresh password check", func(t *testing.T) {
		resp, err := svc.Reauth(ctx, created.ID, ReauthRequest{Password: "super-secret-1"})
		require.NoError(t, err)

		claims, err := jwtService.ValidateReauthToken(resp.ReauthToken)
		require.NoError(t, err)
		assert.Equal(t, created.ID.String(), claims.UserID)

		// A step-up token is not an access token.
		_, err = jwtService.ValidateAccessToken(resp.ReauthToken)
		assert.Error(t, err)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.Reauth(ctx, created.ID, ReauthRequest{Password: "wrong-password"})
		assert.Error(t, err)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupAuthService(t)

	created, err := svc.Register(ctx, RegisterUserRequest{
		Email: "admin@example.com", Password: "super-secret-1", DisplayName: "Console Admin", Role: "admin",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, created.ID, ChangePasswordRequest{
		CurrentPassword: "super-secret-1",
		NewPassword:     "even-more-secret-2",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "super-secret-1"})
	assert.Error(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "even-more-secret-2"})
	assert.NoError(t, err)
}
