// Package httpapi serves the marketplace REST API with gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/handtohand/marketplace/internal/logging"
	"github.com/handtohand/marketplace/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address   string
	matches   services.MatchFinder
	exchanges services.ExchangeManager
	feedback  services.FeedbackManager
	logger    logging.Logger
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, ms services.MatchFinder, es services.ExchangeManager,
	fs services.FeedbackManager, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		matches:   ms,
		exchanges: es,
		feedback:  fs,
		jwtSecret: []byte(secretKey),
	}
}

// Handler builds the gin engine with every route registered.
func (s *HTTPServer) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", s.health)

	api := r.Group("/api", s.authRequired())
	api.GET("/matches", s.findMatches)
	api.POST("/exchanges", s.proposeExchange)
	api.GET("/exchanges", s.activeExchange)
	api.PATCH("/exchanges/:id", s.applyExchangeAction)
	api.POST("/feedback", s.submitFeedback)
	api.GET("/users/:id/stats", s.userStats)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
