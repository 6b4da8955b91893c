package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seu-repo/evstation/internal/adapter/cache"
	"github.com/seu-repo/evstation/internal/adapter/external/notification"
	"github.com/seu-repo/evstation/internal/adapter/grpc/server"
	"github.com/seu-repo/evstation/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/evstation/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/evstation/internal/adapter/queue"
	"github.com/seu-repo/evstation/internal/adapter/storage/postgres"
	"github.com/seu-repo/evstation/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/evstation/internal/adapter/websocket"
	"github.com/seu-repo/evstation/internal/observability/telemetry"
	"github.com/seu-repo/evstation/internal/ports"
	"github.com/seu-repo/evstation/internal/service/auth"
	"github.com/seu-repo/evstation/internal/service/evowner"
	"github.com/seu-repo/evstation/internal/service/health"
	"github.com/seu-repo/evstation/internal/service/station"
	"github.com/seu-repo/evstation/pkg/config"
)

const serviceName = "evstation"

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting EV station service",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Overlay secrets from Vault
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault)
		if err != nil {
			logger.Fatal("Failed to create Vault client", zap.Error(err))
		}
		if err := secrets.Overlay(cfg); err != nil {
			logger.Fatal("Failed to read secrets from Vault", zap.Error(err))
		}
		logger.Info("Loaded secrets from Vault", zap.String("path", cfg.Vault.Path))
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry, serviceName, cfg.App.Version)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// 5. Initialize PostgreSQL
	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}

	// 6. Initialize Cache (Redis, in-memory fallback)
	var appCache ports.Cache
	appCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
		appCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer appCache.Close()

	// 7. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	if messageQueue != nil {
		defer messageQueue.Close()
	}

	// 8. Initialize Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	ownerRepo := postgres.NewEVOwnerRepository(db, logger)
	stationRepo := postgres.NewStationRepository(db, logger)
	bookingRepo := postgres.NewBookingRepository(db, logger)

	// 9. Initialize Services
	jwtService := auth.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
		appCache,
		logger,
	)
	authService := auth.NewService(userRepo, jwtService, logger)
	stationService := station.NewService(stationRepo, bookingRepo, appCache, messageQueue, station.Config{
		CacheTTL:        cfg.Station.CacheTTL,
		DefaultRadiusKm: cfg.Station.DefaultRadiusKm,
	}, logger)
	ownerService := evowner.NewService(
		ownerRepo,
		userRepo,
		messageQueue,
		notification.New(cfg.Notification.Email, logger),
		logger,
	)

	healthConfig := health.Config{
		Version:       cfg.App.Version,
		DB:            sqlDB,
		Cache:         appCache,
		QueueOptional: true,
	}
	if messageQueue != nil {
		healthConfig.Queue = messageQueue
	}
	healthService := health.NewService(healthConfig, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 10. WebSocket Hub (real-time station feed)
	wsHub := wsAdapter.NewHub(logger)
	go wsHub.Run(ctx)
	if messageQueue != nil {
		if err := wsHub.Subscribe(messageQueue, station.SubjectStationEvents); err != nil {
			logger.Error("Failed to subscribe station feed", zap.Error(err))
		}
	}

	// 11. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(middleware.RateLimit(cfg.RateLimiting))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))
	}

	health.NewFiberHandler(healthService).RegisterRoutes(app)

	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	handlers.RegisterRoutes(app.Group("/api/v1"), handlers.Services{
		Auth:      authService,
		Stations:  stationService,
		Owners:    ownerService,
		OwnerRepo: ownerRepo,
	}, logger)

	// Browsers cannot set headers on the upgrade request, so the token travels as ?token=.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		session, err := authService.Authenticate(c.UserContext(), c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		c.Locals(middleware.LocalUserID, session.Principal.ID)
		return c.Next()
	})
	app.Get("/ws/stations", websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals(middleware.LocalUserID).(string)
		wsHub.AddClient(c, userID, c.Query("stationId"))
	}))

	// 12. Initialize gRPC Server (station reads, health and reflection for internal callers)
	var grpcServer *server.GRPCServer
	if cfg.GRPC.Enabled {
		grpcServer = server.NewGRPCServer(authService, stationService, func(ctx context.Context) bool {
			return healthService.Ready(ctx).Ready
		}, logger)
		go grpcServer.WatchReadiness(ctx, 15*time.Second)
		go func() {
			logger.Info("Starting gRPC Server", zap.Int("port", cfg.GRPC.Port))
			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
			if err != nil {
				logger.Fatal("Failed to listen for gRPC", zap.Error(err))
			}
			if err := grpcServer.Serve(lis); err != nil {
				logger.Fatal("gRPC Server failed", zap.Error(err))
			}
		}()
	}

	// 13. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 14. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}

	logger.Info("Server exited gracefully")
}

// newLogger builds a production logger at the configured level. Format "console" switches to the development encoder.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}
