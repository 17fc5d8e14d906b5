// Package http exposes the OttoCollect REST API, the realtime socket, the
// function endpoints and operational routes over gin.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/juju/clock"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/realtime"
	"github.com/ottocollect/ottocollect/internal/server/services"
	"github.com/ottocollect/ottocollect/internal/server/viewstate"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 5 * time.Second

// Services groups the business services the handlers call.
type Services struct {
	Users         *services.UserService
	Catalog       *services.CatalogService
	Banknotes     *services.BanknoteService
	Collection    *services.CollectionService
	Marketplace   *services.MarketplaceService
	Community     *services.CommunityService
	Messages      *services.MessageService
	Notifications *services.NotificationService
	Follows       *services.FollowService
	Points        *services.PointsService
	Images        *services.ImageService
}

// Options configures the router.
type Options struct {
	SecretKey          []byte
	CORSOrigins        []string
	RateLimitPerSecond uint
	SiteURL            string
	RevealPageSize     int
	// RevealDelay is waited before every page after the first.
	RevealDelay time.Duration
	Clock       clock.Clock

	ViewState *viewstate.Store
	Socket    *realtime.Socket
	Metrics   *Metrics
	Gatherer  prometheus.Gatherer
	// Health reports whether dependencies are reachable; nil means healthy.
	Health func(ctx context.Context) error
}

type Handler struct {
	svc  Services
	opts Options
	log  logging.Logger
}

// Server serves the router on an address until its context ends.
type Server struct {
	address string
	handler http.Handler
	log     logging.Logger
}

func NewServer(address string, handler http.Handler, log logging.Logger) *Server {
	return &Server{address: address, handler: handler, log: log.With("module", "http_server")}
}

// Run listens on the configured address and shuts down gracefully when ctx
// is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "HTTP server listening", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info(context.Background(), "Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
