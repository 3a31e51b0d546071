package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillstream/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options configures [New].
type Options struct {
	Config   shared.ServerConfig
	Fixtures *Fixtures
	// HashCost is the bcrypt cost for seeded and registered passwords. 0 selects the default.
	HashCost int
	Logger   *log.Logger
}

// Server is the local development API.
type Server struct {
	http   *http.Server
	store  *Store
	logger *log.Logger
}

// New seeds a store and builds the routed handler with request id, logging, recovery and CORS.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	fixtures := opts.Fixtures
	if fixtures == nil {
		var err error
		if fixtures, err = DefaultFixtures(); err != nil {
			return nil, err
		}
	}

	store, err := NewStore(fixtures, opts.HashCost)
	if err != nil {
		return nil, err
	}

	router := NewBasicRouter()
	router.Use(RequestID(), Recoverer(logger), Logger(logger), CORS(opts.Config.AllowedOrigins))
	NewAPI(store, opts.Config.JWTSecret, logger).Register(router)

	return &Server{
		http: &http.Server{
			Addr:              opts.Config.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:  store,
		logger: logger,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Store() *Store {
	return s.store
}

// Serve accepts connections on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving catalog API", "addr", ln.Addr().String())
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

// ListenAndServe listens on the configured address and calls [Server.Serve].
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}
