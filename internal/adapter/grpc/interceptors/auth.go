package interceptors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
	"github.com/seu-repo/evstation/internal/service/auth"
)

const healthServicePrefix = "/grpc.health.v1.Health/"

// UnaryAuthInterceptor resolves the bearer token in the "authorization" metadata
// and stores the principal in the handler context. Health checks and reflection
// are served without credentials.
func UnaryAuthInterceptor(service ports.AuthService) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if isPublic(info.FullMethod) {
			return handler(ctx, req)
		}

		token := bearerFromMetadata(ctx)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		session, err := service.Authenticate(ctx, token)
		if err != nil {
			if domain.KindOf(err) == domain.KindInternal {
				return nil, status.Error(codes.Internal, domain.ErrInternal.Message)
			}
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(auth.WithPrincipal(ctx, session.Principal), req)
	}
}

func isPublic(method string) bool {
	return strings.HasPrefix(method, healthServicePrefix) ||
		strings.HasPrefix(method, "/grpc.reflection.")
}

func bearerFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	value := strings.TrimSpace(values[0])
	if !strings.HasPrefix(value, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(value, "Bearer "))
}
