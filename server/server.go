package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"agridash/config"
	"agridash/handlers"
	"agridash/middleware"
)

// Server is the HTTP API server
type Server struct {
	server *http.Server
	log    *zap.Logger
}

// New wires routes, CORS and middleware around h.
func New(cfg *config.Server, h *handlers.Handler, log *zap.Logger) *Server {
	r := mux.NewRouter()
	h.Register(r)

	return &Server{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           chain(r, log),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			// long enough for a slow model answer
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

// chain wraps the router in CORS, panic recovery and request logging.
// Logging is outermost so a recovered panic still gets its request line.
func chain(h http.Handler, log *zap.Logger) http.Handler {
	// the dashboard front-end is served from another origin
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS", "PUT", "DELETE"},
		AllowedHeaders: []string{"*"},
	})

	handler := c.Handler(h)
	handler = middleware.Recovery(log)(handler)
	return middleware.Logging(log)(handler)
}

// Handler exposes the full middleware chain, for tests.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	s.log.Info("starting API server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}
