// Package http_rest serves the node's HTTP API behind CORS and Accept header
// middleware.
package http_rest

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/api/server"
	"github.com/prysmaticlabs/lean/network/httputil"
	"github.com/prysmaticlabs/lean/runtime"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "http-rest")

var _ runtime.Service = (*Server)(nil)

// Config parameters for setting up the http-rest service.
type config struct {
	httpAddr       string
	allowedOrigins []string
	router         *mux.Router
	timeout        time.Duration
}

// Server serves HTTP JSON and SSZ traffic.
type Server struct {
	cfg          *config
	server       *http.Server
	listener     net.Listener
	cancel       context.CancelFunc
	ctx          context.Context
	startFailure error
}

// Option for configuring the http-rest server.
type Option func(g *Server) error

// WithRouter sets the router serving the API routes.
func WithRouter(r *mux.Router) Option {
	return func(g *Server) error {
		g.cfg.router = r
		return nil
	}
}

// WithHTTPAddr sets the listening address.
func WithHTTPAddr(addr string) Option {
	return func(g *Server) error {
		g.cfg.httpAddr = addr
		return nil
	}
}

// WithAllowedOrigins allows adding a set of allowed origins to the server.
func WithAllowedOrigins(origins []string) Option {
	return func(g *Server) error {
		g.cfg.allowedOrigins = origins
		return nil
	}
}

// WithTimeout bounds how long a request may take to be read and answered.
func WithTimeout(duration time.Duration) Option {
	return func(g *Server) error {
		g.cfg.timeout = duration
		return nil
	}
}

// New returns a new instance of the Server.
func New(ctx context.Context, opts ...Option) (*Server, error) {
	g := &Server{
		ctx: ctx,
		cfg: &config{timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	if g.cfg.router == nil {
		return nil, errors.New("router option not configured")
	}

	accepted := server.AcceptHeaderHandler([]string{httputil.JsonMediaType, httputil.OctetStreamMediaType})
	corsMux := server.CorsHandler(g.cfg.allowedOrigins).Handler(accepted(g.cfg.router))
	g.server = &http.Server{
		Addr:              g.cfg.httpAddr,
		Handler:           corsMux,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       g.cfg.timeout,
		WriteTimeout:      g.cfg.timeout,
	}
	return g, nil
}

// Start the http rest service.
func (g *Server) Start() {
	_, cancel := context.WithCancel(g.ctx)
	g.cancel = cancel

	lis, err := net.Listen("tcp", g.cfg.httpAddr)
	if err != nil {
		log.WithError(err).Error("Failed to listen on HTTP address")
		g.startFailure = err
		return
	}
	g.listener = lis
	go func() {
		log.WithField("address", lis.Addr().String()).Info("Starting HTTP server")
		if err := g.server.Serve(lis); err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start HTTP server")
			g.startFailure = err
			return
		}
	}()
}

// Addr returns the address the server listens on, once started.
func (g *Server) Addr() string {
	if g.listener == nil {
		return g.cfg.httpAddr
	}
	return g.listener.Addr().String()
}

// Status of the HTTP server. Returns an error if this service is unhealthy.
func (g *Server) Status() error {
	if g.startFailure != nil {
		return g.startFailure
	}
	return nil
}

// Stop the HTTP server with a graceful shutdown.
func (g *Server) Stop() error {
	if g.server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(g.ctx, 2*time.Second)
		defer shutdownCancel()
		if err := g.server.Shutdown(shutdownCtx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.Warn("Existing connections terminated")
			} else {
				log.WithError(err).Error("Failed to gracefully shut down server")
			}
		}
	}
	if g.cancel != nil {
		g.cancel()
	}
	return nil
}
