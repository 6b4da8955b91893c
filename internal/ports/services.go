package ports

import (
	"context"

	"github.com/seu-repo/evstation/internal/domain"
)

// TokenPair is returned by a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is an authenticated request identity.
type Session struct {
	Principal domain.Principal
	TokenID   string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (*Session, error)
	Logout(ctx context.Context, tokenID string) error
}

type StationService interface {
	Create(ctx context.Context, req *domain.CreateStationRequest) *domain.ServiceResult
	Update(ctx context.Context, id string, req *domain.UpdateStationRequest) *domain.ServiceResult
	Activate(ctx context.Context, id string) *domain.ServiceResult
	Deactivate(ctx context.Context, id string) *domain.ServiceResult
	Get(ctx context.Context, id string) *domain.ServiceResult
	List(ctx context.Context, q domain.StationQuery) *domain.StationListResult
	Nearby(ctx context.Context, q domain.NearbyQuery) *domain.StationListResult
}

// RegisterOwnerRequest is the input of EV owner self-registration.
type RegisterOwnerRequest struct {
	NIC       string `json:"nic"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type EVOwnerService interface {
	Register(ctx context.Context, req *RegisterOwnerRequest) *domain.ServiceResult
	Get(ctx context.Context, nic string) *domain.ServiceResult
	GetByUserID(ctx context.Context, userID string) *domain.ServiceResult
	UpdateProfile(ctx context.Context, nic string, patch *domain.EVOwnerPatch) *domain.ServiceResult
	Deactivate(ctx context.Context, nic string) *domain.ServiceResult
	Reactivate(ctx context.Context, actor domain.Principal, nic string) *domain.ServiceResult
}

// Notifier tells an EV owner that their account state changed.
type Notifier interface {
	OwnerStatusChanged(ctx context.Context, owner *domain.EVOwner) error
}
