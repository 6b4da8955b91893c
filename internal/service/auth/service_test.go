package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/mocks"
)

const testSecret = "test-secret-key"

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newTestService(t *testing.T, users *mocks.MockUserRepository) (*Service, *JWTService, *mocks.MockCache) {
	t.Helper()
	cache := mocks.NewMockCache()
	jwtService := NewJWTService(testSecret, "evstation-test", time.Minute, time.Hour, cache, newTestLogger())
	svc := NewService(users, jwtService, newTestLogger()).(*Service)
	return svc, jwtService, cache
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hashed, err := HashPassword(password)
	require.NoError(t, err)
	return &domain.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Password: hashed,
		Role:     "EVOwner",
		IsActive: true,
	}
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	user := activeUser(t, "password123")
	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			if email == "test@example.com" {
				return user, nil
			}
			return nil, nil
		},
	}
	svc, jwtService, _ := newTestService(t, repo)

	// Act
	pair, err := svc.Login(context.Background(), "  Test@Example.com ", "password123")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := jwtService.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "EVOwner", claims.Role)
	assert.Equal(t, tokenTypeAccess, claims.Type)
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Arrange
	svc, _, _ := newTestService(t, &mocks.MockUserRepository{})

	// Act
	_, err := svc.Login(context.Background(), "notfound@example.com", "password")

	// Assert
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	user := activeUser(t, "password123")
	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		},
	}
	svc, _, _ := newTestService(t, repo)

	// Act
	_, err := svc.Login(context.Background(), "test@example.com", "wrong-password")

	// Assert
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	// Arrange
	user := activeUser(t, "password123")
	user.IsActive = false
	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		},
	}
	svc, _, _ := newTestService(t, repo)

	// Act
	_, err := svc.Login(context.Background(), "test@example.com", "password123")

	// Assert
	assert.Equal(t, domain.KindNotAuthorized, domain.KindOf(err))
}

func TestLogin_RepositoryError(t *testing.T) {
	// Arrange
	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc, _, _ := newTestService(t, repo)

	// Act
	_, err := svc.Login(context.Background(), "test@example.com", "password123")

	// Assert
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestRefresh(t *testing.T) {
	user := activeUser(t, "password123")
	repo := &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, nil
		},
	}
	svc, jwtService, _ := newTestService(t, repo)

	t.Run("issues a new access token", func(t *testing.T) {
		refresh, err := jwtService.GenerateRefreshToken(user)
		require.NoError(t, err)

		access, err := svc.Refresh(context.Background(), refresh)

		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, tokenTypeAccess, claims.Type)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		access, err := jwtService.GenerateAccessToken(user)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), access)

		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	})

	t.Run("rejects a revoked refresh token", func(t *testing.T) {
		refresh, err := jwtService.GenerateRefreshToken(user)
		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(refresh)
		require.NoError(t, err)
		require.NoError(t, jwtService.RevokeToken(context.Background(), claims.ID))

		_, err = svc.Refresh(context.Background(), refresh)

		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	})

	t.Run("rejects a deactivated user", func(t *testing.T) {
		inactive := *user
		inactive.ID = "user-inactive"
		inactive.IsActive = false
		repo.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
			return &inactive, nil
		}
		refresh, err := jwtService.GenerateRefreshToken(&inactive)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), refresh)

		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	})
}

func TestAuthenticate(t *testing.T) {
	user := activeUser(t, "password123")
	svc, jwtService, _ := newTestService(t, &mocks.MockUserRepository{})

	t.Run("resolves the principal", func(t *testing.T) {
		access, err := jwtService.GenerateAccessToken(user)
		require.NoError(t, err)

		session, err := svc.Authenticate(context.Background(), access)

		require.NoError(t, err)
		assert.Equal(t, domain.Principal{ID: "user-123", Role: domain.RoleEVOwner}, session.Principal)
		assert.NotEmpty(t, session.TokenID)
	})

	t.Run("unknown role maps to other", func(t *testing.T) {
		guest := *user
		guest.Role = "Auditor"
		access, err := jwtService.GenerateAccessToken(&guest)
		require.NoError(t, err)

		session, err := svc.Authenticate(context.Background(), access)

		require.NoError(t, err)
		assert.Equal(t, domain.RoleOther, session.Principal.Role)
	})

	t.Run("rejects a refresh token", func(t *testing.T) {
		refresh, err := jwtService.GenerateRefreshToken(user)
		require.NoError(t, err)

		_, err = svc.Authenticate(context.Background(), refresh)

		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   user.ID,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
				ID:        "forged",
			},
			Role: "Admin",
			Type: tokenTypeAccess,
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = svc.Authenticate(context.Background(), forged)

		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   user.ID,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				ID:        "expired",
			},
			Type: tokenTypeAccess,
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.Authenticate(context.Background(), expired)

		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("rejects a token without subject", func(t *testing.T) {
		anonymous := *user
		anonymous.ID = ""
		access, err := jwtService.GenerateAccessToken(&anonymous)
		require.NoError(t, err)

		_, err = svc.Authenticate(context.Background(), access)

		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "not-a-jwt")

		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestLogout(t *testing.T) {
	// Arrange
	user := activeUser(t, "password123")
	svc, jwtService, cache := newTestService(t, &mocks.MockUserRepository{})

	access, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	session, err := svc.Authenticate(context.Background(), access)
	require.NoError(t, err)

	// Act
	require.NoError(t, svc.Logout(context.Background(), session.TokenID))

	// Assert
	assert.True(t, cache.Has(revokedKey(session.TokenID)))
	_, err = svc.Authenticate(context.Background(), access)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestLogout_MissingTokenID(t *testing.T) {
	// Arrange
	svc, _, _ := newTestService(t, &mocks.MockUserRepository{})

	// Act
	err := svc.Logout(context.Background(), "")

	// Assert
	assert.Equal(t, domain.KindValidationFailed, domain.KindOf(err))
}

func TestLogout_CacheFailure(t *testing.T) {
	// Arrange
	svc, _, cache := newTestService(t, &mocks.MockUserRepository{})
	cache.SetFunc = func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
		return errors.New("redis down")
	}

	// Act
	err := svc.Logout(context.Background(), "some-jti")

	// Assert
	assert.Error(t, err)
}

func TestIsTokenRevoked_CacheErrorCountsAsNotRevoked(t *testing.T) {
	cache := mocks.NewMockCache()
	cache.GetFunc = func(ctx context.Context, key string) (string, error) {
		return "", errors.New("redis down")
	}
	jwtService := NewJWTService(testSecret, "evstation-test", 0, 0, cache, zap.NewNop())

	assert.False(t, jwtService.IsTokenRevoked(context.Background(), "jti"))
	assert.Equal(t, 15*time.Minute, jwtService.accessDuration)
	assert.Equal(t, 7*24*time.Hour, jwtService.refreshDuration)
}

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")

	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hashed)
	assert.NotEqual(t, hashed, func() string { h, _ := HashPassword("s3cret-pass"); return h }())
}
