package evowner

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/observability/telemetry"
)

// SubjectOwnerEvents is the queue subject EV owner account events are published on.
const SubjectOwnerEvents = "owner.events"

type EventType string

const (
	EventRegistered  EventType = "registered"
	EventUpdated     EventType = "updated"
	EventDeactivated EventType = "deactivated"
	EventReactivated EventType = "reactivated"
)

type Event struct {
	Type     EventType `json:"type"`
	NIC      string    `json:"nic"`
	UserID   string    `json:"user_id"`
	IsActive bool      `json:"is_active"`
	At       time.Time `json:"at"`
}

func (s *Service) publish(t EventType, owner *domain.EVOwner) {
	if s.mq == nil {
		return
	}
	data, err := json.Marshal(Event{
		Type:     t,
		NIC:      owner.NIC,
		UserID:   owner.UserID,
		IsActive: owner.IsActive,
		At:       s.now(),
	})
	if err != nil {
		s.log.Error("Failed to encode owner event", zap.Error(err))
		return
	}
	if err := s.mq.Publish(SubjectOwnerEvents, data); err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues(SubjectOwnerEvents, "error").Inc()
		s.log.Warn("Failed to publish owner event", zap.String("nic", owner.NIC), zap.Error(err))
		return
	}
	telemetry.EventsPublishedTotal.WithLabelValues(SubjectOwnerEvents, "ok").Inc()
}

// notify e-mails the owner about a state change. Failures are logged only.
func (s *Service) notify(ctx context.Context, owner *domain.EVOwner) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.OwnerStatusChanged(ctx, owner); err != nil {
		s.log.Warn("Failed to notify EV owner", zap.String("nic", owner.NIC), zap.Error(err))
	}
}
