package service

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/payshare/backend/internal/rpc"
)

// ServiceName is reported by the health check.
const ServiceName = "payshare"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService implements rpc.HealthServiceHandler.
type HealthService struct {
	db Pinger
}

var _ rpc.HealthServiceHandler = (*HealthService)(nil)

// NewHealthService creates a health service checking db on every call.
func NewHealthService(db Pinger) *HealthService {
	return &HealthService{db: db}
}

// Check reports {status, service, message}. A failing database yields
// status "degraded" rather than an RPC error.
func (s *HealthService) Check(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	status, message := "ok", "all systems operational"
	if err := s.db.Ping(ctx); err != nil {
		status, message = "degraded", fmt.Sprintf("database unavailable: %v", err)
	}

	payload, err := structpb.NewStruct(map[string]any{
		"status":  status,
		"service": ServiceName,
		"message": message,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(payload), nil
}
