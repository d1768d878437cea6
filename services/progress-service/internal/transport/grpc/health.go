package grpc_server

import (
	"context"
	"log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "progress.ProgressService"

// Check - проверка одной зависимости (БД, Redis).
type Check func(ctx context.Context) error

type HealthServer struct {
	*health.Server
	checks map[string]Check
}

func NewHealthServer(checks map[string]Check) *HealthServer {
	s := &HealthServer{Server: health.NewServer(), checks: checks}
	s.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Probe прогоняет все проверки и выставляет статус сервиса.
func (s *HealthServer) Probe(ctx context.Context) bool {
	status := healthpb.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			log.Printf("health: %s is not reachable: %v", name, err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.SetServingStatus("", status)
	s.SetServingStatus(ServiceName, status)
	return status == healthpb.HealthCheckResponse_SERVING
}

// NewServer собирает gRPC сервер с health и reflection.
func NewServer(hs *HealthServer, opts ...grpc.ServerOption) *grpc.Server {
	srv := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(srv, hs.Server)
	reflection.Register(srv)
	return srv
}
