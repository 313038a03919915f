package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/joshtwist/go-throughput/config"
	"github.com/joshtwist/go-throughput/metrics"
)

const shutdownTimeout = 5 * time.Second

// Counter is the shared state the handlers read and write.
type Counter interface {
	Increment()
	Read() int64
}

// Server routes the hit and push endpoints to a shared Counter.
type Server struct {
	counter Counter
	metrics *metrics.Metrics
	router  *mux.Router
}

// New validates the cross-origin policy and builds the router. m may be nil,
// in which case /metrics is not served.
func New(counter Counter, cors config.CORSConfig, m *metrics.Metrics) (*Server, error) {
	if err := cors.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cross-origin policy: %w", err)
	}

	s := &Server{
		counter: counter,
		metrics: m,
		router:  mux.NewRouter(),
	}

	s.router.HandleFunc("/", s.handleHit).Methods("GET", "POST", "OPTIONS")
	s.router.HandleFunc("/sse", s.handlePush).Methods("GET")
	if m != nil {
		s.router.Handle("/metrics", m.Handler()).Methods("GET")
	}
	s.router.Use(corsMiddleware(cors))

	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// Bind failures are returned immediately.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on: %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
