package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/evstation/pkg/config"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Ping() error
	Close() error
}

// New connects the driver selected in cfg. Driver "none" returns a nil queue.
func New(cfg config.QueueConfig, log *zap.Logger) (MessageQueue, error) {
	switch cfg.Driver {
	case "nats":
		return NewNATSQueue(cfg, log)
	case "rabbitmq":
		return NewRabbitMQQueue(cfg, log)
	case "none", "":
		log.Warn("Message queue disabled, lifecycle events will not be published")
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported queue driver %q", cfg.Driver)
	}
}
