package health

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const checkTimeout = 5 * time.Second

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

type LiveResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker probes one dependency.
type Checker func(ctx context.Context) CheckResult

// Pinger is implemented by the cache and the message queue adapters.
type Pinger interface {
	Ping() error
}

// Config lists the dependencies to probe. Nil entries are skipped.
type Config struct {
	Version string
	DB      *sql.DB
	Cache   Pinger
	Queue   Pinger
	// QueueOptional reports a failing queue as degraded instead of unhealthy.
	QueueOptional bool
}

type Service struct {
	startTime time.Time
	version   string
	checkers  map[string]Checker
	log       *zap.Logger
	mu        sync.RWMutex
}

func NewService(cfg Config, log *zap.Logger) *Service {
	s := &Service{
		startTime: time.Now(),
		version:   cfg.Version,
		checkers:  make(map[string]Checker),
		log:       log,
	}

	if cfg.DB != nil {
		s.RegisterChecker("database", s.checkDatabase(cfg.DB))
	}
	if cfg.Cache != nil {
		s.RegisterChecker("cache", s.checkPing("cache", cfg.Cache, StatusUnhealthy))
	}
	if cfg.Queue != nil {
		failure := StatusUnhealthy
		if cfg.QueueOptional {
			failure = StatusDegraded
		}
		s.RegisterChecker("queue", s.checkPing("queue", cfg.Queue, failure))
	}

	return s
}

func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Info("Registered health checker", zap.String("name", name))
}

// Live reports that the process is serving.
func (s *Service) Live() *LiveResponse {
	return &LiveResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every checker concurrently, each bounded by its own timeout.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for k, v := range s.checkers {
		checkers[k] = v
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult, len(checkers))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}

	wg.Wait()

	overall := StatusHealthy
	for _, result := range results {
		switch {
		case result.Status == StatusUnhealthy:
			overall = StatusUnhealthy
		case result.Status == StatusDegraded && overall != StatusUnhealthy:
			overall = StatusDegraded
		}
	}

	return &ReadyResponse{
		Ready:     overall != StatusUnhealthy,
		Status:    overall,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

func (s *Service) checkDatabase(db *sql.DB) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		err := db.PingContext(ctx)
		return s.result("database", start, err, StatusUnhealthy)
	}
}

// checkPing adapts a context-free Ping to the checker timeout.
func (s *Service) checkPing(name string, p Pinger, failure Status) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		done := make(chan error, 1)
		go func() { done <- p.Ping() }()

		var err error
		select {
		case err = <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
		return s.result(name, start, err, failure)
	}
}

func (s *Service) result(name string, start time.Time, err error, failure Status) CheckResult {
	result := CheckResult{
		Name:      name,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
		Status:    StatusHealthy,
		Message:   "connection ok",
	}
	if err != nil {
		result.Status = failure
		result.Message = fmt.Sprintf("ping failed: %v", err)
		s.log.Warn("Health check failed", zap.String("check", name), zap.Error(err))
	}
	return result
}
