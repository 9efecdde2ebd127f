package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/identity"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/infrastructure/auth"
	"github.com/inventario/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// ==================== Helpers ====================

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough-32",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "inventario-test",
		MaxRefreshCount:        2,
	})
}

func newTestAuthService(repo *MockUserRepository) (*AuthService, *auth.InMemoryTokenBlacklist) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(repo, newTestJWTService(), blacklist, zap.NewNop()), blacklist
}

func createTestUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("maria", "maria@example.com", "secret123", "admin")
	require.NoError(t, err)
	return user
}

// ==================== Register ====================

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user and issues tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("ExistsByUsername", ctx, "maria").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Register(ctx, RegisterRequest{
			Username: "maria",
			Email:    "maria@example.com",
			Password: "secret123",
			Role:     "admin",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "maria", resp.User.Username)
		assert.Equal(t, "admin", resp.User.Role)
		repo.AssertExpectations(t)
	})

	t.Run("username taken", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("ExistsByUsername", ctx, "maria").Return(true, nil)

		_, err := svc.Register(ctx, RegisterRequest{Username: "maria", Email: "maria@example.com", Password: "secret123", Role: "admin"})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("weak password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("ExistsByUsername", ctx, "maria").Return(false, nil)

		_, err := svc.Register(ctx, RegisterRequest{Username: "maria", Email: "maria@example.com", Password: "password", Role: "admin"})
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	})
}

// ==================== Login ====================

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		user := createTestUser(t)

		repo.On("FindByUsername", ctx, "maria").Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		resp, err := svc.Login(ctx, LoginRequest{Username: "maria", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotNil(t, user.LastLoginAt)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("FindByUsername", ctx, "maria").Return(createTestUser(t), nil)

		_, err := svc.Login(ctx, LoginRequest{Username: "maria", Password: "wrong1234"})
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("unknown user reads the same as a wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("FindByUsername", ctx, "ghost").Return(nil, shared.NotFound("User"))

		_, err := svc.Login(ctx, LoginRequest{Username: "ghost", Password: "secret123"})
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("login timestamp write failure does not fail the login", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		user := createTestUser(t)

		repo.On("FindByUsername", ctx, "maria").Return(user, nil)
		repo.On("Update", ctx, user).Return(errors.New("db down"))

		_, err := svc.Login(ctx, LoginRequest{Username: "maria", Password: "secret123"})
		assert.NoError(t, err)
	})
}

// ==================== Refresh / Logout ====================

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _ := newTestAuthService(repo)
	user := createTestUser(t)

	pair, err := newTestJWTService().GenerateTokenPair(auth.Subject{UserID: user.ID, Username: user.Username, Role: user.Role})
	require.NoError(t, err)

	t.Run("issues a new pair", func(t *testing.T) {
		repo.On("FindByID", ctx, user.ID).Return(user, nil).Once()

		resp, err := svc.Refresh(ctx, RefreshRequest{Refresh: pair.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Nil(t, resp.User)
	})

	t.Run("deleted user", func(t *testing.T) {
		repo.On("FindByID", ctx, user.ID).Return(nil, shared.NotFound("User")).Once()

		_, err := svc.Refresh(ctx, RefreshRequest{Refresh: pair.RefreshToken})
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "USER_NOT_FOUND", domainErr.Code)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, RefreshRequest{Refresh: pair.AccessToken})
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, blacklist := newTestAuthService(repo)

	err := svc.Logout(ctx, LogoutInput{UserID: uuid.New(), TokenJTI: "jti-1", TTL: time.Minute})
	require.NoError(t, err)

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, svc.Logout(ctx, LogoutInput{UserID: uuid.New(), TokenJTI: "jti-2"}))
	revoked, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "already expired tokens are not stored")
}
