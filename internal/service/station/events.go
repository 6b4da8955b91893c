package station

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/observability/telemetry"
)

// SubjectStationEvents is the queue subject station lifecycle events are published on.
const SubjectStationEvents = "station.events"

type EventType string

const (
	EventCreated     EventType = "created"
	EventUpdated     EventType = "updated"
	EventActivated   EventType = "activated"
	EventDeactivated EventType = "deactivated"
)

// Event is the payload published after a successful mutation.
type Event struct {
	Type           EventType `json:"type"`
	StationID      string    `json:"station_id"`
	IsActive       bool      `json:"is_active"`
	TotalSlots     int       `json:"total_slots"`
	AvailableSlots int       `json:"available_slots"`
	At             time.Time `json:"at"`
}

func newEvent(t EventType, s *domain.ChargingStation, at time.Time) Event {
	return Event{
		Type:           t,
		StationID:      s.ID,
		IsActive:       s.IsActive,
		TotalSlots:     s.TotalSlots,
		AvailableSlots: s.AvailableSlots,
		At:             at,
	}
}

// publish never fails the mutation that produced the event.
func (s *Service) publish(evt Event) {
	if s.mq == nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		s.log.Error("Failed to encode station event", zap.Error(err))
		return
	}
	if err := s.mq.Publish(SubjectStationEvents, data); err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues(SubjectStationEvents, "error").Inc()
		s.log.Warn("Failed to publish station event",
			zap.String("station_id", evt.StationID),
			zap.String("type", string(evt.Type)),
			zap.Error(err),
		)
		return
	}
	telemetry.EventsPublishedTotal.WithLabelValues(SubjectStationEvents, "ok").Inc()
}
