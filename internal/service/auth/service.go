package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
)

var errInvalidCredentials = domain.NewError(domain.KindUnauthenticated, "invalid credentials")

type Service struct {
	users ports.UserRepository
	jwt   *JWTService
	log   *zap.Logger
}

func NewService(users ports.UserRepository, jwtService *JWTService, log *zap.Logger) ports.AuthService {
	return &Service{
		users: users,
		jwt:   jwtService,
		log:   log,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		s.log.Error("user lookup failed during login", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if user == nil {
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	if !user.IsActive {
		s.log.Warn("login attempt on deactivated account", zap.String("user_id", user.ID))
		return nil, domain.NewError(domain.KindNotAuthorized, "account is deactivated")
	}

	access, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, domain.ErrInternal
	}
	refresh, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return nil, domain.ErrInternal
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil || claims.Type != tokenTypeRefresh {
		return "", domain.NewError(domain.KindUnauthenticated, "invalid refresh token")
	}
	if s.jwt.IsTokenRevoked(ctx, claims.ID) {
		return "", domain.NewError(domain.KindUnauthenticated, "refresh token revoked")
	}

	// Verify user exists and status
	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		s.log.Error("user lookup failed during refresh", zap.Error(err))
		return "", domain.ErrInternal
	}
	if user == nil || !user.IsActive {
		return "", domain.NewError(domain.KindUnauthenticated, "user not found")
	}

	access, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return "", domain.ErrInternal
	}
	return access, nil
}

// Authenticate resolves the principal of an access token.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*ports.Session, error) {
	claims, err := s.jwt.ValidateToken(accessToken)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if claims.Type != tokenTypeAccess {
		return nil, domain.ErrUnauthenticated
	}
	if s.jwt.IsTokenRevoked(ctx, claims.ID) {
		return nil, domain.NewError(domain.KindUnauthenticated, "token revoked")
	}

	p := domain.Principal{ID: claims.Subject, Role: domain.ParseRole(claims.Role)}
	if !p.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return &ports.Session{Principal: p, TokenID: claims.ID}, nil
}

func (s *Service) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return domain.NewError(domain.KindValidationFailed, "missing token id")
	}
	return s.jwt.RevokeToken(ctx, tokenID)
}

// HashPassword hashes a clear-text password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
