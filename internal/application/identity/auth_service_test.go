package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/auth"
	"github.com/retail/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "test",
	})
}

type authFixture struct {
	users     *MockUserRepository
	sellers   *MockSellerRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	svc       *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:     new(MockUserRepository),
		sellers:   new(MockSellerRepository),
		jwt:       newTestJWTService(),
		blacklist: auth.NewInMemoryTokenBlacklist(),
	}
	f.svc = NewAuthService(f.users, f.sellers, f.jwt, f.blacklist, zap.NewNop())
	return f
}

func testUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser("maria", "secret123", role)
	require.NoError(t, err)
	return u
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a token carrying the role", func(t *testing.T) {
		f := newAuthFixture()
		user := testUser(t, identity.RoleAdmin)
		f.users.On("FindByUsername", ctx, "maria").Return(user, nil)
		f.users.On("Save", ctx, user).Return(nil)

		result, err := f.svc.Login(ctx, LoginInput{Username: "maria", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "admin", result.User.Role)
		assert.NotNil(t, user.LastLoginAt)

		claims, err := f.jwt.ValidateToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.Subject)
		assert.Equal(t, "maria", claims.Username)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		user := testUser(t, identity.RoleSeller)
		f.users.On("FindByUsername", ctx, "maria").Return(user, nil)

		_, err := f.svc.Login(ctx, LoginInput{Username: "maria", Password: "wrong1234"})
		assert.Equal(t, ErrInvalidCredentials, err)
		f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown user looks the same as a wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

		_, err := f.svc.Login(ctx, LoginInput{Username: "ghost", Password: "whatever1"})
		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newAuthFixture()
		user := testUser(t, identity.RoleSeller)
		user.IsActive = false
		f.users.On("FindByUsername", ctx, "maria").Return(user, nil)

		_, err := f.svc.Login(ctx, LoginInput{Username: "maria", Password: "secret123"})
		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("storage failure is not masked", func(t *testing.T) {
		f := newAuthFixture()
		boom := errors.New("connection reset")
		f.users.On("FindByUsername", ctx, "maria").Return(nil, boom)

		_, err := f.svc.Login(ctx, LoginInput{Username: "maria", Password: "secret123"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	user := testUser(t, identity.RoleSeller)

	require.NoError(t, f.svc.Logout(ctx, LogoutInput{UserID: user.ID, TokenJTI: "jti-1", TTL: time.Minute}))

	revoked, err := f.blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// expired tokens need no entry
	require.NoError(t, f.svc.Logout(ctx, LogoutInput{UserID: user.ID, TokenJTI: "jti-2", TTL: 0}))
	revoked, _ = f.blacklist.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)
}

func TestAuthService_Profile(t *testing.T) {
	ctx := context.Background()

	t.Run("with linked seller", func(t *testing.T) {
		f := newAuthFixture()
		user := testUser(t, identity.RoleSeller)
		user.ForcePasswordChange()
		seller, err := partner.NewSeller("María", "maria@example.com")
		require.NoError(t, err)
		seller.LinkUser(user.ID)

		f.users.On("FindByID", ctx, user.ID).Return(user, nil)
		f.sellers.On("FindByUserID", ctx, user.ID).Return(seller, nil)

		profile, err := f.svc.Profile(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, profile.MustChangePassword)
		require.NotNil(t, profile.SellerID)
		assert.Equal(t, seller.ID, *profile.SellerID)
		assert.Equal(t, "María", profile.SellerName)
	})

	t.Run("without seller", func(t *testing.T) {
		f := newAuthFixture()
		user := testUser(t, identity.RoleAdmin)
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)
		f.sellers.On("FindByUserID", ctx, user.ID).Return(nil, shared.ErrNotFound)

		profile, err := f.svc.Profile(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, profile.SellerID)
		assert.Equal(t, "admin", profile.Role)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the forced change flag", func(t *testing.T) {
		f := newAuthFixture()
		user := testUser(t, identity.RoleSeller)
		user.ForcePasswordChange()
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)
		f.users.On("Save", ctx, user).Return(nil)

		err := f.svc.ChangePassword(ctx, ChangePasswordInput{UserID: user.ID, OldPassword: "secret123", NewPassword: "brandnew9"})
		require.NoError(t, err)
		assert.False(t, user.MustChangePassword)
		assert.True(t, user.VerifyPassword("brandnew9"))
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newAuthFixture()
		user := testUser(t, identity.RoleSeller)
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)

		err := f.svc.ChangePassword(ctx, ChangePasswordInput{UserID: user.ID, OldPassword: "nope12345", NewPassword: "brandnew9"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
		f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
