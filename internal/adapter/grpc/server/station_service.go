package server

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
	"github.com/seu-repo/evstation/internal/service/auth"
)

// GetStationMethod is the full method name of the station lookup.
const GetStationMethod = "/" + ServiceName + "/GetStation"

// StationServiceServer is the server API of evstation.v1.StationService.
// Messages are protobuf well-known types, so no generated code is needed.
type StationServiceServer interface {
	GetStation(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

var stationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStation", Handler: getStationHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func getStationHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StationServiceServer).GetStation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetStationMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StationServiceServer).GetStation(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// StationGrpcService exposes station reads to internal callers.
type StationGrpcService struct {
	stations ports.StationService
	log      *zap.Logger
}

func NewStationGrpcService(stations ports.StationService, log *zap.Logger) *StationGrpcService {
	return &StationGrpcService{
		stations: stations,
		log:      log,
	}
}

func (s *StationGrpcService) GetStation(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	p, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, domain.ErrUnauthenticated.Message)
	}

	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "station id is required")
	}

	res := s.stations.Get(ctx, id)
	if !res.Success {
		return nil, status.Error(codeFor(res.Kind), res.Message)
	}

	out, err := toStruct(res.Data)
	if err != nil {
		s.log.Error("Failed to encode station", zap.String("station_id", id), zap.String("principal_id", p.ID), zap.Error(err))
		return nil, status.Error(codes.Internal, domain.ErrInternal.Message)
	}
	return out, nil
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

// codeFor maps an error kind onto its gRPC status code.
func codeFor(kind domain.ErrorKind) codes.Code {
	switch kind {
	case domain.KindUnauthenticated:
		return codes.Unauthenticated
	case domain.KindNotAuthorized:
		return codes.PermissionDenied
	case domain.KindValidationFailed, domain.KindInvalidType:
		return codes.InvalidArgument
	case domain.KindStationNotFound, domain.KindEVOwnerNotFound:
		return codes.NotFound
	case domain.KindAlreadyInState, domain.KindHasActiveBookings, domain.KindConflict:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}
