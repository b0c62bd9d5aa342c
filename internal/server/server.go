// Package server exposes grading over HTTP: a JSON check API, a health
// probe, and a Prometheus scrape endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agbru/fibgrade/internal/config"
	"github.com/agbru/fibgrade/internal/fib"
	"github.com/agbru/fibgrade/internal/logging"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/student"
	"github.com/agbru/fibgrade/internal/trace"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxRequestBody    = 1 << 20 // 1 MiB
)

// Server serves the grading API.
type Server struct {
	cfg      config.AppConfig
	registry fib.Factory
	refs     []*reference.ReferenceImplementation
	metrics  *Metrics
	security SecurityConfig
	logger   logging.Logger
}

// New creates a grading server.
//
// Parameters:
//   - cfg: The application configuration (Addr, Timeout, ProfileMax).
//   - registry: The calculator factory used to trace submissions.
//   - refs: The references submissions are graded against.
//   - logger: The structured logger.
//
// Returns:
//   - *Server: A configured server, not yet listening.
func New(cfg config.AppConfig, registry fib.Factory, refs []*reference.ReferenceImplementation, logger logging.Logger) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		refs:     refs,
		metrics:  NewMetrics(),
		security: DefaultSecurityConfig(),
		logger:   logger,
	}
}

// Handler builds the route table with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.wrap(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	mux.HandleFunc("/api/v1/check", s.wrap(s.handleCheck))
	mux.HandleFunc("/api/v1/references", s.wrap(s.handleReferences))
	return mux
}

// wrap applies the standard middleware chain to a handler.
func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(h))
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("grading server listening", logging.String("addr", s.cfg.Addr))
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// metricsMiddleware tracks in-flight and total request counts.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		s.metrics.CountRequest(r.URL.Path)
		next(w, r)
	}
}

// handleHealth serves the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMetrics serves the Prometheus scrape endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// checkRequest is the body of POST /api/v1/check.
type checkRequest struct {
	// Submission names the graded implementation.
	Submission string `json:"submission"`
	// Algo selects the calculator to trace.
	Algo string `json:"algo"`
	// ProfileMax is the largest index traced. Zero uses the server default.
	ProfileMax int `json:"profile_max,omitempty"`
	// Footprint, when present, is graded directly instead of tracing a
	// calculator server-side.
	Footprint *trace.Footprint `json:"footprint,omitempty"`
}

// checkResponse is the body returned by POST /api/v1/check.
type checkResponse struct {
	Submission string                      `json:"submission"`
	Algo       string                      `json:"algo"`
	Correct    bool                        `json:"correct"`
	Results    []reference.ReferenceResult `json:"results"`
}

// errorResponse is the body returned for request errors.
type errorResponse struct {
	Error string `json:"error"`
}

// handleCheck grades a submission against the loaded references. The
// footprint is either uploaded in the request body or produced by
// tracing the requested calculator server-side.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}

	var req checkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	if req.Submission == "" {
		req.Submission = s.cfg.Student
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	tracer := otel.Tracer("fibgrade/server")
	ctx, span := tracer.Start(ctx, "grading.check")
	span.SetAttributes(
		attribute.String("submission", req.Submission),
		attribute.String("algo", req.Algo),
		attribute.Int("profile_max", req.ProfileMax),
	)
	defer span.End()

	start := time.Now()

	var impl *student.Implementation
	if req.Footprint != nil {
		impl = student.FromFootprint(req.Submission, req.Footprint)
	} else {
		if req.ProfileMax == 0 {
			req.ProfileMax = s.cfg.ProfileMax
		}
		if req.ProfileMax < 2 || req.ProfileMax > s.security.MaxProfileMax {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("profile_max must be between 2 and %d", s.security.MaxProfileMax)})
			return
		}

		calc, ok := s.registry.Get(req.Algo)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown calculator: %s", req.Algo)})
			return
		}

		// Each bracket traces a cold calculator: the sample must measure
		// a full computation, and concurrent requests must not share
		// memo state.
		var err error
		impl, err = student.Record(req.Submission, func(c *trace.Collector) error {
			for n := 0; n <= req.ProfileMax; n++ {
				n := n
				sample := fib.Cold(calc)
				if _, err := c.Bracket(req.Algo, n, func(obs fib.Observer) error {
					_, err := sample.Calculate(ctx, n, obs)
					return err
				}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			s.logger.Error("trace failed", err, logging.String("algo", req.Algo))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
	}

	results := impl.Check(s.refs)
	correct := len(results) > 0
	for _, res := range results {
		s.metrics.ObserveCheckDuration(res.Reference, time.Since(start).Seconds())
		if !res.Correct() {
			correct = false
		}
	}

	s.logger.Info("check complete",
		logging.String("submission", req.Submission),
		logging.String("algo", req.Algo),
		logging.Bool("correct", correct))

	writeJSON(w, http.StatusOK, checkResponse{
		Submission: req.Submission,
		Algo:       req.Algo,
		Correct:    correct,
		Results:    results,
	})
}

// referencesResponse is the body returned by GET /api/v1/references.
type referencesResponse struct {
	References []string `json:"references"`
}

// handleReferences lists the loaded reference names.
func (s *Server) handleReferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	names := make([]string, 0, len(s.refs))
	for _, ref := range s.refs {
		names = append(names, ref.Name())
	}
	writeJSON(w, http.StatusOK, referencesResponse{References: names})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if s.logger != nil {
		s.logger.Debug("method not allowed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path))
	}
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
