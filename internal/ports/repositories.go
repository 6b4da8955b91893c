package ports

import (
	"context"

	"github.com/seu-repo/evstation/internal/domain"
)

// Repositories return (nil, nil) when a record does not exist.

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type EVOwnerRepository interface {
	// Register stores the login account and the owner profile in one transaction.
	Register(ctx context.Context, user *domain.User, owner *domain.EVOwner) error
	FindByNIC(ctx context.Context, nic string) (*domain.EVOwner, error)
	FindByUserID(ctx context.Context, userID string) (*domain.EVOwner, error)
	UpdateFields(ctx context.Context, nic string, fields map[string]interface{}) error
	// SetActive flips the owner and its login account together.
	SetActive(ctx context.Context, nic string, active bool) error
}

type StationRepository interface {
	Insert(ctx context.Context, station *domain.ChargingStation) error
	FindByID(ctx context.Context, id string) (*domain.ChargingStation, error)
	Find(ctx context.Context, filter domain.StationFilter, sort domain.StationSort) ([]domain.ChargingStation, error)
	FindAll(ctx context.Context) ([]domain.ChargingStation, error)
	// UpdateFields writes all columns in a single statement. Reports whether the station still existed.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (bool, error)
	// Activate sets is_active=true only if the station is inactive. Reports whether a row changed.
	Activate(ctx context.Context, id string) (bool, error)
	// DeactivateIfNoActiveBookings sets is_active=false only if the station is active and
	// no active booking references it. Reports whether a row changed.
	DeactivateIfNoActiveBookings(ctx context.Context, id string) (bool, error)
}

type BookingRepository interface {
	// CountActive counts bookings of the station whose status is not terminal.
	CountActive(ctx context.Context, stationID string) (int64, error)
}
