package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
)

type BookingRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewBookingRepository(db *gorm.DB, log *zap.Logger) ports.BookingRepository {
	return &BookingRepository{
		db:  db,
		log: log,
	}
}

func (r *BookingRepository) CountActive(ctx context.Context, stationID string) (int64, error) {
	defer observe(time.Now())
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("station_id = ? AND status NOT IN ?", stationID, terminalStatuses()).
		Count(&count).Error
	if err != nil {
		r.log.Error("Failed to count active bookings", zap.String("station_id", stationID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func terminalStatuses() []string {
	out := make([]string, len(domain.TerminalBookingStatuses))
	for i, s := range domain.TerminalBookingStatuses {
		out[i] = string(s)
	}
	return out
}
