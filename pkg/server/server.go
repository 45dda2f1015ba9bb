// Package server exposes the solver over HTTP.
//
// # Routes
//
//	GET  /healthz           liveness and version
//	POST /v1/solves         solve the tile text in the request body
//	GET  /v1/solves/{id}    fetch a stored solve
//
// A successful POST stores the result in the runner's cache under a fresh
// UUID and answers 201 with the result and a Location header. Errors are
// JSON objects {"code": ..., "message": ...}: malformed input is 400, an
// oversized body 413, a puzzle that cannot be solved 422 and an unknown id
// 404.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/jigsaw/pkg/buildinfo"
	"github.com/matzehuels/jigsaw/pkg/errors"
	pkgio "github.com/matzehuels/jigsaw/pkg/io"
	"github.com/matzehuels/jigsaw/pkg/observability"
	"github.com/matzehuels/jigsaw/pkg/pattern"
	"github.com/matzehuels/jigsaw/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 1 << 20

const shutdownTimeout = 10 * time.Second

// Options configures a [Server].
type Options struct {
	// Solve holds the defaults for every solve. A policy query parameter
	// overrides Solve.Policy per request.
	Solve pipeline.Options
	// MaxBodyBytes bounds the tile text accepted by POST /v1/solves.
	MaxBodyBytes int64
	// Logger receives request logs. Nil uses the runner's logger.
	Logger *log.Logger
}

// Server is the HTTP front end of a [pipeline.Runner].
type Server struct {
	runner  *pipeline.Runner
	opts    Options
	logger  *log.Logger
	handler http.Handler
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, opts: opts, logger: logger.WithPrefix("http")}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/solves", func(r chi.Router) {
		r.Post("/", s.handleSolve)
		r.Get("/{id}", s.handleGetSolve)
	})
	return r
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Get().Version})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	opts := s.opts.Solve
	opts.Logger = s.logger
	if q := r.URL.Query().Get("policy"); q != "" {
		p, err := pattern.ParsePolicy(q)
		if err != nil {
			s.writeError(w, err)
			return
		}
		opts.Policy = p
	}

	store, err := pkgio.ReadTiles(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Code:    errors.ErrCodeInvalidInput,
				Message: "request body too large",
			})
			return
		}
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Solve(r.Context(), store, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	id, err := s.runner.Save(r.Context(), res.Summary)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := *res.Summary
	out.ID = id
	w.Header().Set("Location", "/v1/solves/"+id)
	writeJSON(w, http.StatusCreated, &out)
}

func (s *Server) handleGetSolve(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch code := errors.GetCode(err); {
	case errors.IsSolverError(err):
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeInvalidInput,
		code == errors.ErrCodeInvalidFormat,
		code == errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
