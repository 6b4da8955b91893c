package mocks

import (
	"context"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
)

// MockAuthService is a mock implementation of AuthService interface
type MockAuthService struct {
	LoginFunc        func(ctx context.Context, email, password string) (*ports.TokenPair, error)
	RefreshFunc      func(ctx context.Context, refreshToken string) (string, error)
	AuthenticateFunc func(ctx context.Context, accessToken string) (*ports.Session, error)
	LogoutFunc       func(ctx context.Context, tokenID string) error
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &ports.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return "access", nil
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*ports.Session, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, accessToken)
	}
	return nil, domain.ErrUnauthenticated
}

func (m *MockAuthService) Logout(ctx context.Context, tokenID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, tokenID)
	}
	return nil
}

// MockStationService is a mock implementation of StationService interface
type MockStationService struct {
	CreateFunc     func(ctx context.Context, req *domain.CreateStationRequest) *domain.ServiceResult
	UpdateFunc     func(ctx context.Context, id string, req *domain.UpdateStationRequest) *domain.ServiceResult
	ActivateFunc   func(ctx context.Context, id string) *domain.ServiceResult
	DeactivateFunc func(ctx context.Context, id string) *domain.ServiceResult
	GetFunc        func(ctx context.Context, id string) *domain.ServiceResult
	ListFunc       func(ctx context.Context, q domain.StationQuery) *domain.StationListResult
	NearbyFunc     func(ctx context.Context, q domain.NearbyQuery) *domain.StationListResult
}

func (m *MockStationService) Create(ctx context.Context, req *domain.CreateStationRequest) *domain.ServiceResult {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return domain.OK("created", nil)
}

func (m *MockStationService) Update(ctx context.Context, id string, req *domain.UpdateStationRequest) *domain.ServiceResult {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	return domain.OK("updated", nil)
}

func (m *MockStationService) Activate(ctx context.Context, id string) *domain.ServiceResult {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, id)
	}
	return domain.OK("activated", nil)
}

func (m *MockStationService) Deactivate(ctx context.Context, id string) *domain.ServiceResult {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id)
	}
	return domain.OK("deactivated", nil)
}

func (m *MockStationService) Get(ctx context.Context, id string) *domain.ServiceResult {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return domain.Fail(domain.ErrStationNotFound)
}

func (m *MockStationService) List(ctx context.Context, q domain.StationQuery) *domain.StationListResult {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return &domain.StationListResult{Success: true}
}

func (m *MockStationService) Nearby(ctx context.Context, q domain.NearbyQuery) *domain.StationListResult {
	if m.NearbyFunc != nil {
		return m.NearbyFunc(ctx, q)
	}
	return &domain.StationListResult{Success: true}
}

// MockNotifier records the owners it was asked to notify.
type MockNotifier struct {
	OwnerStatusChangedFunc func(ctx context.Context, owner *domain.EVOwner) error
	Notified               []string
}

func (m *MockNotifier) OwnerStatusChanged(ctx context.Context, owner *domain.EVOwner) error {
	m.Notified = append(m.Notified, owner.NIC)
	if m.OwnerStatusChangedFunc != nil {
		return m.OwnerStatusChangedFunc(ctx, owner)
	}
	return nil
}
