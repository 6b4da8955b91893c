package station

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/adapter/queue"
	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/observability/telemetry"
	"github.com/seu-repo/evstation/internal/ports"
)

const (
	msgCreated          = "Charging station created successfully"
	msgUpdated          = "Charging station updated successfully"
	msgActivated        = "Charging station activated successfully"
	msgDeactivated      = "Charging station deactivated successfully"
	msgRetrieved        = "Charging station retrieved successfully"
	msgAlreadyActive    = "Charging station is already active"
	msgAlreadyInactive  = "Charging station is already inactive"
	msgActiveBookings   = "Cannot deactivate a charging station with active bookings"
	msgListFailed       = "An error occurred while retrieving charging stations"
	stationCachePrefix  = "station:"
	defaultStationCache = 5 * time.Minute
)

// Config tunes the lifecycle engine.
type Config struct {
	CacheTTL        time.Duration
	DefaultRadiusKm float64
}

// Service is the station lifecycle engine. It keeps 0 <= available <= total
// across every write and refuses to deactivate stations with active bookings.
type Service struct {
	stations ports.StationRepository
	bookings ports.BookingRepository
	cache    ports.Cache
	mq       queue.MessageQueue
	cfg      Config
	now      func() time.Time
	tracer   trace.Tracer
	log      *zap.Logger
}

// NewService wires the engine. cache and mq may be nil.
func NewService(
	stations ports.StationRepository,
	bookings ports.BookingRepository,
	cache ports.Cache,
	mq queue.MessageQueue,
	cfg Config,
	log *zap.Logger,
) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultStationCache
	}
	if cfg.DefaultRadiusKm <= 0 {
		cfg.DefaultRadiusKm = DefaultRadiusKm
	}
	return &Service{
		stations: stations,
		bookings: bookings,
		cache:    cache,
		mq:       mq,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		tracer:   otel.Tracer("evstation/station"),
		log:      log,
	}
}

var _ ports.StationService = (*Service)(nil)

func (s *Service) Create(ctx context.Context, req *domain.CreateStationRequest) *domain.ServiceResult {
	ctx, span := s.tracer.Start(ctx, "StationService.Create")
	defer span.End()

	if err := ValidateCreate(req); err != nil {
		return s.fail("create", err)
	}

	stationType, _ := domain.ParseStationType(req.Type)
	now := s.now()
	st := &domain.ChargingStation{
		ID:             uuid.New().String(),
		StationName:    req.StationName,
		Type:           stationType,
		Address:        req.Address,
		City:           req.City,
		StateProvince:  req.StateProvince,
		TotalSlots:     *req.TotalSlots,
		AvailableSlots: *req.TotalSlots,
		ContactPhone:   req.ContactPhone,
		ContactEmail:   req.ContactEmail,
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	st.RefreshLocation()

	if err := s.stations.Insert(ctx, st); err != nil {
		return s.internal("create", "Failed to insert charging station", err)
	}

	span.SetAttributes(attribute.String("station.id", st.ID))
	s.log.Info("Charging station created",
		zap.String("station_id", st.ID),
		zap.String("type", string(st.Type)),
		zap.Int("total_slots", st.TotalSlots),
	)
	s.publish(newEvent(EventCreated, st, now))
	telemetry.ObserveStationOperation("create", "ok")
	return domain.OK(msgCreated, st)
}

func (s *Service) Update(ctx context.Context, id string, req *domain.UpdateStationRequest) *domain.ServiceResult {
	ctx, span := s.tracer.Start(ctx, "StationService.Update", trace.WithAttributes(attribute.String("station.id", id)))
	defer span.End()

	existing, err := s.stations.FindByID(ctx, id)
	if err != nil {
		return s.internal("update", "Failed to load charging station", err)
	}
	if existing == nil {
		return s.fail("update", domain.ErrStationNotFound)
	}
	if err := ValidateUpdate(req); err != nil {
		return s.fail("update", err)
	}

	// Work on a copy so a failed write leaves the loaded state untouched.
	updated := *existing
	fields := map[string]interface{}{}

	if req.StationName != nil {
		updated.StationName = *req.StationName
		fields["station_name"] = updated.StationName
	}
	if req.Type != nil {
		updated.Type, _ = domain.ParseStationType(*req.Type)
		fields["type"] = updated.Type
	}
	if req.Address != nil {
		updated.Address = *req.Address
		fields["address"] = updated.Address
	}
	if req.City != nil {
		updated.City = *req.City
		fields["city"] = updated.City
	}
	if req.StateProvince != nil {
		updated.StateProvince = *req.StateProvince
		fields["state_province"] = updated.StateProvince
	}
	if req.TouchesLocation() {
		updated.RefreshLocation()
		fields["location"] = updated.Location
	}
	if req.TotalSlots != nil {
		updated.TotalSlots = *req.TotalSlots
		updated.AvailableSlots = Recompute(existing.AvailableSlots, existing.TotalSlots, *req.TotalSlots)
		fields["total_slots"] = updated.TotalSlots
		fields["available_slots"] = updated.AvailableSlots
	}
	if req.ContactPhone != nil {
		updated.ContactPhone = *req.ContactPhone
		fields["contact_phone"] = updated.ContactPhone
	}
	if req.ContactEmail != nil {
		updated.ContactEmail = *req.ContactEmail
		fields["contact_email"] = updated.ContactEmail
	}
	if req.Latitude != nil {
		updated.Latitude = *req.Latitude
		fields["latitude"] = updated.Latitude
	}
	if req.Longitude != nil {
		updated.Longitude = *req.Longitude
		fields["longitude"] = updated.Longitude
	}

	updated.UpdatedAt = s.now()
	fields["updated_at"] = updated.UpdatedAt

	found, err := s.stations.UpdateFields(ctx, id, fields)
	if err != nil {
		return s.internal("update", "Failed to update charging station", err)
	}
	if !found {
		s.invalidate(ctx, id)
		return s.fail("update", domain.ErrStationNotFound)
	}

	s.invalidate(ctx, id)
	s.log.Info("Charging station updated",
		zap.String("station_id", id),
		zap.Int("fields", len(fields)-1),
	)
	s.publish(newEvent(EventUpdated, &updated, updated.UpdatedAt))
	telemetry.ObserveStationOperation("update", "ok")
	return domain.OK(msgUpdated, &updated)
}

func (s *Service) Activate(ctx context.Context, id string) *domain.ServiceResult {
	ctx, span := s.tracer.Start(ctx, "StationService.Activate", trace.WithAttributes(attribute.String("station.id", id)))
	defer span.End()

	st, err := s.stations.FindByID(ctx, id)
	if err != nil {
		return s.internal("activate", "Failed to load charging station", err)
	}
	if st == nil {
		return s.fail("activate", domain.ErrStationNotFound)
	}
	if st.IsActive {
		return s.fail("activate", domain.NewError(domain.KindAlreadyInState, msgAlreadyActive))
	}

	changed, err := s.stations.Activate(ctx, id)
	if err != nil {
		return s.internal("activate", "Failed to activate charging station", err)
	}
	if !changed {
		return s.fail("activate", s.explainLostActivation(ctx, id))
	}

	activated := *st
	activated.IsActive = true
	activated.UpdatedAt = s.now()

	s.invalidate(ctx, id)
	s.log.Info("Charging station activated", zap.String("station_id", id))
	s.publish(newEvent(EventActivated, &activated, activated.UpdatedAt))
	telemetry.ObserveStationOperation("activate", "ok")
	return domain.OK(msgActivated, &activated)
}

// Deactivate refuses while any booking of the station is neither Cancelled nor Completed.
// The final write is conditional on the same predicate, so a booking created after the
// read-side check makes the write a no-op instead of leaving an inactive station with
// live bookings.
func (s *Service) Deactivate(ctx context.Context, id string) *domain.ServiceResult {
	ctx, span := s.tracer.Start(ctx, "StationService.Deactivate", trace.WithAttributes(attribute.String("station.id", id)))
	defer span.End()

	st, err := s.stations.FindByID(ctx, id)
	if err != nil {
		return s.internal("deactivate", "Failed to load charging station", err)
	}
	if st == nil {
		return s.fail("deactivate", domain.ErrStationNotFound)
	}
	if !st.IsActive {
		return s.fail("deactivate", domain.NewError(domain.KindAlreadyInState, msgAlreadyInactive))
	}

	active, err := s.bookings.CountActive(ctx, id)
	if err != nil {
		return s.internal("deactivate", "Failed to count active bookings", err)
	}
	if active > 0 {
		s.log.Info("Deactivation blocked by active bookings",
			zap.String("station_id", id),
			zap.Int64("active_bookings", active),
		)
		return s.fail("deactivate", domain.NewError(domain.KindHasActiveBookings, msgActiveBookings))
	}

	changed, err := s.stations.DeactivateIfNoActiveBookings(ctx, id)
	if err != nil {
		return s.internal("deactivate", "Failed to deactivate charging station", err)
	}
	if !changed {
		return s.fail("deactivate", s.explainLostDeactivation(ctx, id))
	}

	deactivated := *st
	deactivated.IsActive = false
	deactivated.UpdatedAt = s.now()

	s.invalidate(ctx, id)
	s.log.Info("Charging station deactivated", zap.String("station_id", id))
	s.publish(newEvent(EventDeactivated, &deactivated, deactivated.UpdatedAt))
	telemetry.ObserveStationOperation("deactivate", "ok")
	return domain.OK(msgDeactivated, &deactivated)
}

// explainLostDeactivation reports why the conditional write matched no row.
// explainLostActivation reports why the conditional activation matched no row.
func (s *Service) explainLostActivation(ctx context.Context, id string) error {
	st, err := s.stations.FindByID(ctx, id)
	switch {
	case err != nil:
		s.log.Error("Failed to reload charging station", zap.String("station_id", id), zap.Error(err))
		return domain.ErrInternal
	case st == nil:
		return domain.ErrStationNotFound
	default:
		return domain.NewError(domain.KindAlreadyInState, msgAlreadyActive)
	}
}

func (s *Service) explainLostDeactivation(ctx context.Context, id string) error {
	st, err := s.stations.FindByID(ctx, id)
	switch {
	case err != nil:
		s.log.Error("Failed to reload charging station", zap.String("station_id", id), zap.Error(err))
		return domain.ErrInternal
	case st == nil:
		return domain.ErrStationNotFound
	case !st.IsActive:
		return domain.NewError(domain.KindAlreadyInState, msgAlreadyInactive)
	default:
		return domain.NewError(domain.KindHasActiveBookings, msgActiveBookings)
	}
}

func (s *Service) Get(ctx context.Context, id string) *domain.ServiceResult {
	ctx, span := s.tracer.Start(ctx, "StationService.Get", trace.WithAttributes(attribute.String("station.id", id)))
	defer span.End()

	if st := s.cached(ctx, id); st != nil {
		return domain.OK(msgRetrieved, st)
	}

	st, err := s.stations.FindByID(ctx, id)
	if err != nil {
		return s.internal("get", "Failed to load charging station", err)
	}
	if st == nil {
		return domain.Fail(domain.ErrStationNotFound)
	}
	s.store(ctx, st)
	return domain.OK(msgRetrieved, st)
}

func (s *Service) List(ctx context.Context, q domain.StationQuery) *domain.StationListResult {
	ctx, span := s.tracer.Start(ctx, "StationService.List")
	defer span.End()

	filter, sort := ComposeQuery(q)
	stations, err := s.stations.Find(ctx, filter, sort)
	if err != nil {
		s.log.Error("Failed to list charging stations", zap.Error(err))
		telemetry.ObserveStationOperation("list", string(domain.KindInternal))
		return &domain.StationListResult{Success: false, ErrorMessage: msgListFailed}
	}

	if filter.IsActive == nil && !filter.HasSearch() {
		active := 0
		for i := range stations {
			if stations[i].IsActive {
				active++
			}
		}
		telemetry.ActiveStations.Set(float64(active))
	}
	return &domain.StationListResult{Success: true, Stations: stations}
}

// Nearby lists active stations within the radius of a point. A non-positive radius uses the default.
func (s *Service) Nearby(ctx context.Context, q domain.NearbyQuery) *domain.StationListResult {
	ctx, span := s.tracer.Start(ctx, "StationService.Nearby")
	defer span.End()

	if q.Latitude < -90 || q.Latitude > 90 || q.Longitude < -180 || q.Longitude > 180 {
		return &domain.StationListResult{Success: false, ErrorMessage: "latitude or longitude out of range"}
	}
	radius := q.RadiusKm
	if radius <= 0 {
		radius = s.cfg.DefaultRadiusKm
	}

	all, err := s.stations.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list charging stations for proximity search", zap.Error(err))
		return &domain.StationListResult{Success: false, ErrorMessage: msgListFailed}
	}
	return &domain.StationListResult{Success: true, Stations: WithinRadius(all, q.Latitude, q.Longitude, radius)}
}

func (s *Service) cached(ctx context.Context, id string) *domain.ChargingStation {
	if s.cache == nil {
		return nil
	}
	val, err := s.cache.Get(ctx, stationCachePrefix+id)
	if err != nil || val == "" {
		telemetry.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil
	}
	var st domain.ChargingStation
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		s.log.Warn("Discarding undecodable cached station", zap.String("station_id", id), zap.Error(err))
		_ = s.cache.Delete(ctx, stationCachePrefix+id)
		return nil
	}
	telemetry.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &st
}

func (s *Service) store(ctx context.Context, st *domain.ChargingStation) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, stationCachePrefix+st.ID, string(data), s.cfg.CacheTTL); err != nil {
		s.log.Warn("Failed to cache station", zap.String("station_id", st.ID), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, stationCachePrefix+id); err != nil {
		s.log.Warn("Failed to invalidate cached station", zap.String("station_id", id), zap.Error(err))
	}
}

func (s *Service) fail(op string, err error) *domain.ServiceResult {
	res := domain.Fail(err)
	telemetry.ObserveStationOperation(op, string(res.Kind))
	return res
}

// internal logs the store failure and hides its detail from the caller.
func (s *Service) internal(op, msg string, err error) *domain.ServiceResult {
	s.log.Error(msg, zap.String("operation", op), zap.Error(err))
	return s.fail(op, domain.ErrInternal)
}
