package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"github.com/tech-arch1tect/verifycode/services/verification"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type Server struct {
	cfg        *config.Config
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	logger     *logging.Service
}

func NewServer(cfg *config.Config, service *verification.Service, logger *logging.Service) *Server {
	logger = logger.Named("rpc")

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(loggingInterceptor(logger)),
	)
	grpcServer.RegisterService(&ServiceDesc, NewVerifyService(service))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		cfg:        cfg,
		grpcServer: grpcServer,
		health:     healthServer,
		logger:     logger,
	}
}

// Start binds GRPC_HOST:GRPC_PORT and serves in the background.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.cfg.GRPC.Host, strconv.Itoa(s.cfg.GRPC.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.Serve(listener); err != nil {
			s.logger.Error("grpc server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Serve blocks serving lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("verify service listening", zap.String("addr", lis.Addr().String()))

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

// Stop drains in-flight calls, falling back to a hard stop when ctx ends first.
func (s *Server) Stop(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
	s.logger.Info("verify service stopped")
	return nil
}

// Addr is the address bound by Start, empty before that.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func loggingInterceptor(logger *logging.Service) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		}
		if rsp, ok := resp.(*GetVerifyRsp); ok {
			fields = append(fields, zap.Int32("status", rsp.Error))
		}

		if err != nil {
			logger.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Info("rpc", fields...)
		}
		return resp, err
	}
}
