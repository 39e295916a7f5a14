// Package web serves the HTML interface: routing, the signed session
// cookie, form handling and page rendering.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/dmitrijs2005/todolist/internal/server/auth"
	"github.com/dmitrijs2005/todolist/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Sessions *services.SessionService
	Lists    *services.ListService
	Users    *services.UserService
	Reset    *services.ResetService
	Codec    *auth.SessionCodec
	Renderer Renderer
	Logger   logging.Logger
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	handler http.Handler
}

func NewHTTPServer(address string, d Deps) *HTTPServer {
	logger := d.Logger.With("module", "http_server")
	h := &handlers{
		sessions: d.Sessions,
		lists:    d.Lists,
		users:    d.Users,
		reset:    d.Reset,
		renderer: d.Renderer,
		logger:   logger,
	}
	sm := &sessionMiddleware{codec: d.Codec, ttl: d.Codec.TTL(), logger: logger}

	return &HTTPServer{
		address: address,
		logger:  logger,
		handler: logRequests(logger, sm.wrap(h.router())),
	}
}

// Handler exposes the fully wrapped router.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
