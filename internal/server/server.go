// Package server exposes package evaluation over HTTP.
//
// Routes:
//
//	POST /process-url  {"url": "..."} -> report JSON
//	GET  /healthz      liveness and build version
//	GET  /metrics      Prometheus text exposition
//
// Every response carries an X-Request-ID header. A client-supplied ID is
// echoed back; otherwise a UUID is generated.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pkgscore/pkg/buildinfo"
	pkgerrors "github.com/matzehuels/pkgscore/pkg/errors"
	"github.com/matzehuels/pkgscore/pkg/observability"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

const (
	// maxBodyBytes bounds a /process-url request body.
	maxBodyBytes = 64 * 1024

	shutdownTimeout = 10 * time.Second
)

// Evaluator scores one package URL. [pipeline.Runner] implements it.
//
// [pipeline.Runner]: github.com/matzehuels/pkgscore/pkg/pipeline.Runner
type Evaluator interface {
	Evaluate(ctx context.Context, rawURL string) (*scorecard.Scorecard, error)
}

// Server is the HTTP front end. The evaluator can be swapped while serving.
type Server struct {
	mu        sync.RWMutex
	evaluator Evaluator

	collector *observability.Collector
	logger    *log.Logger
	router    chi.Router
}

// New creates a server. collector may be nil, in which case /metrics
// reports nothing.
func New(e Evaluator, collector *observability.Collector, logger *log.Logger) *Server {
	if collector == nil {
		collector = observability.NewCollector()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{evaluator: e, collector: collector, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Post("/process-url", s.processURL)
	r.Get("/healthz", s.healthz)
	r.Get("/metrics", s.metrics)
	return r
}

// SetEvaluator replaces the evaluator used by subsequent requests.
func (s *Server) SetEvaluator(e Evaluator) {
	s.mu.Lock()
	s.evaluator = e
	s.mu.Unlock()
}

func (s *Server) currentEvaluator() Evaluator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluator
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// --- route handlers ---------------------------------------------------------

type processRequest struct {
	URL string `json:"url"`
}

// processURL handles POST /process-url.
func (s *Server) processURL(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, pkgerrors.ErrCodeInvalidInput, "request body must be {\"url\": \"...\"}")
		return
	}
	if req.URL == "" {
		jsonErr(w, http.StatusBadRequest, pkgerrors.ErrCodeInvalidURL, "url is required")
		return
	}

	sc, err := s.currentEvaluator().Evaluate(r.Context(), req.URL)
	if err != nil {
		code := pkgerrors.GetCode(err)
		status := statusFor(code)
		if status >= http.StatusInternalServerError {
			log.FromContext(r.Context()).Error("could not evaluate", "url", req.URL, "err", err)
		}
		if d := pkgerrors.RetryAfter(err); d > 0 && status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", strconv.Itoa(int(d.Seconds())))
		}
		jsonErr(w, status, code, pkgerrors.UserMessage(err))
		return
	}
	jsonResp(w, http.StatusOK, sc.Report())
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// healthz handles GET /healthz.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	if err := s.collector.WriteText(w); err != nil {
		s.logger.Error("write metrics", "err", err)
	}
}

// statusFor maps an error code to an HTTP status.
func statusFor(code pkgerrors.Code) int {
	switch code {
	case pkgerrors.ErrCodeInvalidInput, pkgerrors.ErrCodeInvalidURL, pkgerrors.ErrCodeInvalidPackage:
		return http.StatusBadRequest
	case pkgerrors.ErrCodeRepositoryURLMissing:
		return http.StatusUnprocessableEntity
	case pkgerrors.ErrCodeNotFound, pkgerrors.ErrCodePackageNotFound:
		return http.StatusNotFound
	case pkgerrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case pkgerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case pkgerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case pkgerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// --- helpers ----------------------------------------------------------------

type errorResponse struct {
	Error string         `json:"error"`
	Code  pkgerrors.Code `json:"code"`
}

func jsonResp(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, status int, code pkgerrors.Code, msg string) {
	if code == "" {
		code = pkgerrors.ErrCodeInternal
	}
	jsonResp(w, status, errorResponse{Error: msg, Code: code})
}
