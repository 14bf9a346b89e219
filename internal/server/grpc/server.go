// Package grpc exposes the marketplace services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/handtohand/marketplace/internal/logging"
	"github.com/handtohand/marketplace/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address   string
	matches   services.MatchFinder
	exchanges services.ExchangeManager
	feedback  services.FeedbackManager
	logger    logging.Logger
	jwtSecret []byte
}

var _ MarketplaceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, ms services.MatchFinder, es services.ExchangeManager,
	fs services.FeedbackManager, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		matches:   ms,
		exchanges: es,
		feedback:  fs,
		jwtSecret: []byte(secretKey),
	}
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	RegisterMarketplaceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
