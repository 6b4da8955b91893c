package server

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/seu-repo/evstation/internal/adapter/grpc/interceptors"
	"github.com/seu-repo/evstation/internal/ports"
)

// ServiceName is the station service, also health-checked besides the overall "" entry.
const ServiceName = "evstation.v1.StationService"

// ReadinessFunc reports whether the process can serve requests.
type ReadinessFunc func(ctx context.Context) bool

type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	ready  ReadinessFunc
	log    *zap.Logger
}

func NewGRPCServer(authService ports.AuthService, stations ports.StationService, ready ReadinessFunc, log *zap.Logger) *GRPCServer {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.UnaryObserveInterceptor(log),
			interceptors.UnaryAuthInterceptor(authService),
		),
	)

	s.RegisterService(&stationServiceDesc, NewStationGrpcService(stations, log))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	// Enable reflection for debugging (e.g. grpcurl)
	reflection.Register(s)

	return &GRPCServer{
		server: s,
		health: hs,
		ready:  ready,
		log:    log,
	}
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// WatchReadiness mirrors the readiness probe into the gRPC health service until ctx ends.
func (s *GRPCServer) WatchReadiness(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *GRPCServer) refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.ready != nil && !s.ready(ctx) {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
