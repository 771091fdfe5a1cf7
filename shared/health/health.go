package health

import (
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// RegisterHealthServer registers the gRPC health check service and returns it so
// the caller can flip the serving status during shutdown.
func RegisterHealthServer(grpcServer *grpc.Server) *health.Server {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return healthServer
}

// Server is a standalone gRPC server exposing only the health service, for
// orchestrators that probe over gRPC.
type Server struct {
	grpcServer   *grpc.Server
	healthServer *health.Server
	logger       *zerolog.Logger
}

// NewServer creates a gRPC health server.
func NewServer(logger *zerolog.Logger) *Server {
	grpcServer := grpc.NewServer()

	return &Server{
		grpcServer:   grpcServer,
		healthServer: RegisterHealthServer(grpcServer),
		logger:       logger,
	}
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("gRPC health server listening")
	return s.grpcServer.Serve(lis)
}

// Stop marks the service as not serving and stops the server gracefully.
func (s *Server) Stop() {
	s.healthServer.Shutdown()
	s.grpcServer.GracefulStop()
}
