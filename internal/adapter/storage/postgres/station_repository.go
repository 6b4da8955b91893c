package postgres

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
)

var sortColumns = map[domain.SortField]string{
	domain.SortByLocation:       "location",
	domain.SortByType:           "type",
	domain.SortByTotalSlots:     "total_slots",
	domain.SortByAvailableSlots: "available_slots",
	domain.SortByIsActive:       "is_active",
	domain.SortByCreatedAt:      "created_at",
	domain.SortByUpdatedAt:      "updated_at",
}

// searchCondition ORs a case-insensitive substring match over every searchable column.
const searchCondition = `(station_name ILIKE @term OR type ILIKE @term OR address ILIKE @term OR ` +
	`city ILIKE @term OR state_province ILIKE @term OR location ILIKE @term)`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type StationRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStationRepository(db *gorm.DB, log *zap.Logger) ports.StationRepository {
	return &StationRepository{
		db:  db,
		log: log,
	}
}

func (r *StationRepository) Insert(ctx context.Context, st *domain.ChargingStation) error {
	defer observe(time.Now())
	if err := r.db.WithContext(ctx).Create(st).Error; err != nil {
		r.log.Error("Failed to insert charging station", zap.String("station_id", st.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *StationRepository) FindByID(ctx context.Context, id string) (*domain.ChargingStation, error) {
	return findOne[domain.ChargingStation](r.db.WithContext(ctx), "id = ?", id)
}

func (r *StationRepository) Find(ctx context.Context, filter domain.StationFilter, sort domain.StationSort) ([]domain.ChargingStation, error) {
	defer observe(time.Now())
	query := r.db.WithContext(ctx).Model(&domain.ChargingStation{})

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.HasSearch() {
		term := "%" + likeEscaper.Replace(strings.TrimSpace(filter.SearchTerm)) + "%"
		query = query.Where(searchCondition, map[string]interface{}{"term": term})
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = sortColumns[domain.DefaultStationSort.Field]
		sort = domain.DefaultStationSort
	}
	query = query.Order(clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   sort.Order == domain.SortDesc,
	})

	var stations []domain.ChargingStation
	if err := query.Find(&stations).Error; err != nil {
		r.log.Error("Failed to query charging stations", zap.Error(err))
		return nil, err
	}
	return stations, nil
}

func (r *StationRepository) FindAll(ctx context.Context) ([]domain.ChargingStation, error) {
	defer observe(time.Now())
	var stations []domain.ChargingStation
	if err := r.db.WithContext(ctx).Find(&stations).Error; err != nil {
		return nil, err
	}
	return stations, nil
}

func (r *StationRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	defer observe(time.Now())
	res := r.db.WithContext(ctx).Model(&domain.ChargingStation{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected > 0, res.Error
}

func (r *StationRepository) Activate(ctx context.Context, id string) (bool, error) {
	defer observe(time.Now())
	res := r.db.WithContext(ctx).Model(&domain.ChargingStation{}).
		Where("id = ? AND is_active = ?", id, false).
		Updates(map[string]interface{}{"is_active": true, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

func (r *StationRepository) DeactivateIfNoActiveBookings(ctx context.Context, id string) (bool, error) {
	defer observe(time.Now())
	db := r.db.WithContext(ctx)
	activeBookings := db.Model(&domain.Booking{}).
		Select("1").
		Where("bookings.station_id = charging_stations.id AND bookings.status NOT IN ?", terminalStatuses())

	res := db.Model(&domain.ChargingStation{}).
		Where("id = ? AND is_active = ?", id, true).
		Where("NOT EXISTS (?)", activeBookings).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}
