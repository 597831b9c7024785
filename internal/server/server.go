package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/trenchline/fleetctl/internal/config"
	"github.com/trenchline/fleetctl/internal/fleet"
	"github.com/trenchline/fleetctl/internal/middleware"
)

// Server is the optional HTTP embedder surface over the fleet
// Controller (SPEC_FULL's replacement for the teacher's Connect RPC
// layer, scoped to exactly the operations spec.md §6 names).
type Server struct {
	config       *config.Config
	dependencies *Dependencies
	router       chi.Router
	logger       *log.Logger
}

// New creates a new Server instance around an already-built Controller.
func New(cfg *config.Config, controller *fleet.Controller) *Server {
	deps := NewDependencies(cfg, controller)

	s := &Server{
		config:       cfg,
		dependencies: deps,
		router:       chi.NewRouter(),
		logger:       deps.GetLogger(),
	}
	registerRoutes(s.router, deps)
	return s
}

// buildHandler wraps the router with the ambient middleware chain,
// last-applied-first like the teacher's buildHandler.
func (s *Server) buildHandler() http.Handler {
	handler := http.Handler(s.router)

	handler = middleware.CORS(s.config.Server.CORSOrigins)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return h2c.NewHandler(handler, &http2.Server{})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := s.config.ServerAddr()
	handler := s.buildHandler()

	s.logger.Printf("fleetctl embedder API starting on %s", addr)

	return http.ListenAndServe(addr, handler)
}

// GetDependencies returns the shared dependencies.
func (s *Server) GetDependencies() *Dependencies {
	return s.dependencies
}
