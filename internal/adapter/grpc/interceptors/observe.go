package interceptors

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	grpcHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evstation_grpc_handled_total",
		Help: "Unary gRPC calls partitioned by service, method and status code",
	}, []string{"service", "method", "code"})

	grpcLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evstation_grpc_handling_seconds",
		Help:    "Latency of unary gRPC calls",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"service", "method"})
)

// UnaryObserveInterceptor records one metric sample and one log line per call.
// Health probes are logged at debug level only, whatever their outcome.
func UnaryObserveInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		service, method := splitMethod(info.FullMethod)
		code := status.Code(err)
		grpcHandled.WithLabelValues(service, method, code.String()).Inc()
		grpcLatency.WithLabelValues(service, method).Observe(elapsed.Seconds())

		fields := []zap.Field{
			zap.String("grpc.service", service),
			zap.String("grpc.method", method),
			zap.String("grpc.code", code.String()),
			zap.Duration("duration", elapsed),
		}
		switch {
		case code == codes.OK || isPublic(info.FullMethod):
			log.Debug("gRPC call", fields...)
		case serverFault(code):
			log.Error("gRPC call failed", append(fields, zap.Error(err))...)
		default:
			log.Warn("gRPC call rejected", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}

// splitMethod turns "/pkg.Service/Method" into ("pkg.Service", "Method").
func splitMethod(full string) (string, string) {
	full = strings.TrimPrefix(full, "/")
	if i := strings.LastIndex(full, "/"); i >= 0 {
		return full[:i], full[i+1:]
	}
	return "unknown", full
}

func serverFault(code codes.Code) bool {
	switch code {
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss, codes.DeadlineExceeded:
		return true
	}
	return false
}
