// Package server exposes the predictor over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/happyhackingspace/stayprice"
	"github.com/happyhackingspace/stayprice/internal/config"
	"github.com/happyhackingspace/stayprice/internal/history"
	"github.com/happyhackingspace/stayprice/listing"
	"github.com/happyhackingspace/stayprice/regress"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const apiPrefix = "/api/v1"

// Predictor is the model surface the server needs.
type Predictor interface {
	Predict(in *listing.Input) (*stayprice.Prediction, error)
	Features(in *listing.Input) listing.Row
	Record(in *listing.Input) listing.Record
	Columns() []string
	Defaults() map[string]float64
	Metadata() regress.Metadata
}

// Options configures the server.
type Options struct {
	MaxBodyBytes int64
	RateLimit    float64
	RateBurst    int
	// History receives every successful prediction when set.
	History history.Store
	Version string
}

// OptionsFrom builds server options from the service configuration.
func OptionsFrom(cfg config.ServerConfig) Options {
	return Options{
		MaxBodyBytes: cfg.MaxBodyBytes,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
	}
}

// Server routes API requests to a predictor.
type Server struct {
	predictor Predictor
	opts      Options
	router    *mux.Router
}

// New creates a Server and registers its routes.
func New(p Predictor, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	s := &Server{predictor: p, opts: opts, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(requestID, logRequests, rateLimit(s.opts.RateLimit, s.opts.RateBurst))

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	// API routes live on the root router: a subrouter reports a method
	// mismatch as not found.
	s.router.HandleFunc(apiPrefix+"/predict", s.handlePredict).Methods(http.MethodPost)
	s.router.HandleFunc(apiPrefix+"/features", s.handleFeatures).Methods(http.MethodPost)
	s.router.HandleFunc(apiPrefix+"/schema", s.handleSchema).Methods(http.MethodGet)

	// mux skips middleware for these handlers.
	s.router.NotFoundHandler = requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "no such endpoint")
	}))
	s.router.MethodNotAllowedHandler = requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed")
	}))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
