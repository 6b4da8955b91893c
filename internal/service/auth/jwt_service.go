package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents the custom JWT claims used by the application.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
	Type string `json:"type"` // "access" or "refresh"
}

// JWTService handles generation, validation, and revocation of JWT tokens.
type JWTService struct {
	secret          string
	issuer          string
	accessDuration  time.Duration
	refreshDuration time.Duration
	cache           ports.Cache
	log             *zap.Logger
}

// NewJWTService creates a new JWTService instance.
func NewJWTService(secret, issuer string, accessDuration, refreshDuration time.Duration, cache ports.Cache, log *zap.Logger) *JWTService {
	if accessDuration <= 0 {
		accessDuration = 15 * time.Minute
	}
	if refreshDuration <= 0 {
		refreshDuration = 7 * 24 * time.Hour
	}

	log.Info("JWT service initialized",
		zap.Duration("access_duration", accessDuration),
		zap.Duration("refresh_duration", refreshDuration),
	)

	return &JWTService{
		secret:          secret,
		issuer:          issuer,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		cache:           cache,
		log:             log,
	}
}

// GenerateAccessToken creates a signed access token carrying the user id and role.
func (s *JWTService) GenerateAccessToken(user *domain.User) (string, error) {
	return s.sign(user, tokenTypeAccess, user.Role, s.accessDuration)
}

// GenerateRefreshToken creates a signed refresh token. Refresh tokens carry no role.
func (s *JWTService) GenerateRefreshToken(user *domain.User) (string, error) {
	return s.sign(user, tokenTypeRefresh, "", s.refreshDuration)
}

func (s *JWTService) sign(user *domain.User, tokenType, role string, ttl time.Duration) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
		Role: role,
		Type: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.secret))
	if err != nil {
		s.log.Error("failed to sign token",
			zap.String("user_id", user.ID),
			zap.String("type", tokenType),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	s.log.Debug("token generated",
		zap.String("user_id", user.ID),
		zap.String("type", tokenType),
		zap.String("jti", jti),
	)

	return signedToken, nil
}

// ValidateToken parses and validates a JWT token string, returning its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// RevokeToken blacklists a token id until any token carrying it would have expired.
func (s *JWTService) RevokeToken(ctx context.Context, tokenID string) error {
	ttl := s.refreshDuration
	if s.accessDuration > ttl {
		ttl = s.accessDuration
	}

	if err := s.cache.Set(ctx, revokedKey(tokenID), "revoked", ttl); err != nil {
		s.log.Error("failed to revoke token",
			zap.String("token_id", tokenID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.log.Info("token revoked", zap.String("token_id", tokenID))
	return nil
}

// IsTokenRevoked reports whether the token id was revoked. Cache misses and errors count as not revoked.
func (s *JWTService) IsTokenRevoked(ctx context.Context, tokenID string) bool {
	val, err := s.cache.Get(ctx, revokedKey(tokenID))
	if err != nil {
		return false
	}
	return val == "revoked"
}

func revokedKey(tokenID string) string {
	return "revoked_token:" + tokenID
}
