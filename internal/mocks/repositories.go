package mocks

import (
	"context"

	"github.com/seu-repo/evstation/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

// MockEVOwnerRepository is a mock implementation of EVOwnerRepository
type MockEVOwnerRepository struct {
	RegisterFunc     func(ctx context.Context, user *domain.User, owner *domain.EVOwner) error
	FindByNICFunc    func(ctx context.Context, nic string) (*domain.EVOwner, error)
	FindByUserIDFunc func(ctx context.Context, userID string) (*domain.EVOwner, error)
	UpdateFieldsFunc func(ctx context.Context, nic string, fields map[string]interface{}) error
	SetActiveFunc    func(ctx context.Context, nic string, active bool) error
}

func (m *MockEVOwnerRepository) Register(ctx context.Context, user *domain.User, owner *domain.EVOwner) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, user, owner)
	}
	return nil
}

func (m *MockEVOwnerRepository) FindByNIC(ctx context.Context, nic string) (*domain.EVOwner, error) {
	if m.FindByNICFunc != nil {
		return m.FindByNICFunc(ctx, nic)
	}
	return nil, nil
}

func (m *MockEVOwnerRepository) FindByUserID(ctx context.Context, userID string) (*domain.EVOwner, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockEVOwnerRepository) UpdateFields(ctx context.Context, nic string, fields map[string]interface{}) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, nic, fields)
	}
	return nil
}

func (m *MockEVOwnerRepository) SetActive(ctx context.Context, nic string, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, nic, active)
	}
	return nil
}

// MockStationRepository is a mock implementation of StationRepository
type MockStationRepository struct {
	InsertFunc                       func(ctx context.Context, st *domain.ChargingStation) error
	FindByIDFunc                     func(ctx context.Context, id string) (*domain.ChargingStation, error)
	FindFunc                         func(ctx context.Context, filter domain.StationFilter, sort domain.StationSort) ([]domain.ChargingStation, error)
	FindAllFunc                      func(ctx context.Context) ([]domain.ChargingStation, error)
	UpdateFieldsFunc                 func(ctx context.Context, id string, fields map[string]interface{}) (bool, error)
	ActivateFunc                     func(ctx context.Context, id string) (bool, error)
	DeactivateIfNoActiveBookingsFunc func(ctx context.Context, id string) (bool, error)
}

func (m *MockStationRepository) Insert(ctx context.Context, st *domain.ChargingStation) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, st)
	}
	return nil
}

func (m *MockStationRepository) FindByID(ctx context.Context, id string) (*domain.ChargingStation, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStationRepository) Find(ctx context.Context, filter domain.StationFilter, sort domain.StationSort) ([]domain.ChargingStation, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, filter, sort)
	}
	return []domain.ChargingStation{}, nil
}

func (m *MockStationRepository) FindAll(ctx context.Context) ([]domain.ChargingStation, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.ChargingStation{}, nil
}

func (m *MockStationRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return true, nil
}

func (m *MockStationRepository) Activate(ctx context.Context, id string) (bool, error) {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, id)
	}
	return true, nil
}

func (m *MockStationRepository) DeactivateIfNoActiveBookings(ctx context.Context, id string) (bool, error) {
	if m.DeactivateIfNoActiveBookingsFunc != nil {
		return m.DeactivateIfNoActiveBookingsFunc(ctx, id)
	}
	return true, nil
}

// MockBookingRepository is a mock implementation of BookingRepository
type MockBookingRepository struct {
	CountActiveFunc func(ctx context.Context, stationID string) (int64, error)
}

func (m *MockBookingRepository) CountActive(ctx context.Context, stationID string) (int64, error) {
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx, stationID)
	}
	return 0, nil
}
