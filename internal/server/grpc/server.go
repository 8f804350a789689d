// Package grpc exposes the standard gRPC health service, reporting whether
// the storage database is reachable, plus server reflection.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

// ServiceName is the health-checked service name.
const ServiceName = "gophdrive.Storage"

const (
	defaultCheckInterval   = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	pingTimeout            = 2 * time.Second
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type GRPCServer struct {
	address       string
	logger        logging.Logger
	db            Pinger
	health        *health.Server
	checkInterval time.Duration

	shutdownTimeout time.Duration
}

func NewGRPCServer(address string, l logging.Logger, db Pinger, checkInterval time.Duration) *GRPCServer {
	if checkInterval <= 0 {
		checkInterval = defaultCheckInterval
	}
	return &GRPCServer{
		address:       address,
		logger:        l.With("module", "grpc_server"),
		db:            db,
		health:        health.NewServer(),
		checkInterval: checkInterval,

		shutdownTimeout: defaultShutdownTimeout,
	}
}

// WithShutdownTimeout bounds how long a graceful stop may wait for open
// calls and streams before they are closed.
func (s *GRPCServer) WithShutdownTimeout(d time.Duration) *GRPCServer {
	if d > 0 {
		s.shutdownTimeout = d
	}
	return s
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener. It returns after ctx is cancelled
// and in-flight calls have finished.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.loggingUnaryInterceptor),
		grpc.ChainStreamInterceptor(s.loggingStreamInterceptor),
	)

	healthpb.RegisterHealthServer(srv, s.health)
	reflection.Register(srv)

	s.check(ctx)
	go s.watch(ctx)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		s.health.Shutdown()
		s.stop(ctx, srv)
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	<-stopped
	return nil
}

// stop drains the server, closing whatever is still open (Health/Watch
// streams never end on their own) once shutdownTimeout has passed.
func (s *GRPCServer) stop(ctx context.Context, srv *grpc.Server) {
	drained := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(drained)
	}()

	timer := time.NewTimer(s.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-drained:
	case <-timer.C:
		s.logger.Warn(ctx, "gRPC graceful stop timed out, closing connections")
		srv.Stop()
		<-drained
	}
}

func (s *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check pings the database and publishes the result for both the overall
// server ("") and ServiceName.
func (s *GRPCServer) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING

	if s.db == nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := s.db.PingContext(pingCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn(ctx, "database ping failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
