package grpc

import (
	"context"
	"net"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	pb "github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/proto"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/study"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address   string
	study     *study.Service
	logger    logging.Logger
	jwtSecret []byte
}

var _ pb.SyncServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc *study.Service, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		study:     svc,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	// registers service
	pb.RegisterSyncServiceServer(srv, s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	<-stopped
	return nil
}
