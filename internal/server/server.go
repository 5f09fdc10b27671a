// Package server exposes the placement pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz              build information
//	GET  /v1/stats             event counters since start
//	POST /v1/builds            run a build from JSON options, respond with JSON
//	GET  /v1/builds/{format}   run a build from query parameters, respond with the artifact
//
// Every request goes through the same [pipeline.Runner] the CLI uses, so
// results are shared through whichever cache the runner was given.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tessera/pkg/buildinfo"
	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/observability"
	"github.com/matzehuels/tessera/pkg/pipeline"
	"github.com/matzehuels/tessera/pkg/placement"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = "127.0.0.1:8080"

	// maxBodyBytes caps JSON request bodies.
	maxBodyBytes = 1 << 20

	shutdownTimeout = 5 * time.Second
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatPNG:   "image/png",
	pipeline.FormatJSON:  "application/json",
	pipeline.FormatText:  "text/plain; charset=utf-8",
	pipeline.FormatChart: "text/html; charset=utf-8",
	pipeline.FormatPlot:  "image/png",
}

// Server serves builds over HTTP.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	counters *observability.Counters
	router   chi.Router
}

// New creates a server backed by runner. Counters may be nil; when set they
// are reported at /v1/stats.
func New(runner *pipeline.Runner, logger *log.Logger, counters *observability.Counters) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if counters == nil {
		counters = &observability.Counters{}
	}
	s := &Server{
		runner:   runner,
		logger:   logger.WithPrefix("http"),
		counters: counters,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Post("/builds", s.handleBuild)
		r.Get("/builds/{format}", s.handleArtifact)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		s.logger.Warn("shutdown", "err", err)
		return srv.Close()
	}
	return nil
}

// instrument reports requests and responses to the HTTP hooks and the
// server's counters.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := routeOf(r)
		ctx := r.Context()
		s.counters.OnRequest(ctx, r.Method, route)
		observability.HTTP().OnRequest(ctx, r.Method, route)
		observability.HTTP().OnResponse(ctx, r.Method, route, ww.Status(), time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

// buildResponse is the JSON body returned by POST /v1/builds. Artifacts are
// base64 encoded by encoding/json.
type buildResponse struct {
	RunID     string             `json:"run_id"`
	Generator string             `json:"generator"`
	Width     int                `json:"width"`
	Depth     int                `json:"depth"`
	Seed      uint64             `json:"seed"`
	Score     float64            `json:"score"`
	Steps     int                `json:"steps"`
	Height    int                `json:"height"`
	Grid      placement.Snapshot `json:"grid"`
	Cache     cacheResponse      `json:"cache"`
	Timings   map[string]float64 `json:"timings_ms"`
	Artifacts map[string][]byte  `json:"artifacts"`
}

type cacheResponse struct {
	Dataset bool `json:"dataset"`
	Build   bool `json:"build"`
	Render  bool `json:"render"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	p := result.Placement
	writeJSON(w, http.StatusOK, buildResponse{
		RunID:     result.RunID,
		Generator: result.Dataset.Generator,
		Width:     p.Width,
		Depth:     p.Depth,
		Seed:      p.Seed,
		Score:     p.Score,
		Steps:     p.Steps(),
		Height:    p.Grid.Height(),
		Grid:      p.Grid,
		Cache: cacheResponse{
			Dataset: result.CacheInfo.DatasetHit,
			Build:   result.CacheInfo.BuildHit,
			Render:  result.CacheInfo.RenderHit,
		},
		Timings: map[string]float64{
			"generate": ms(result.Stats.GenerateTime),
			"build":    ms(result.Stats.BuildTime),
			"render":   ms(result.Stats.RenderTime),
		},
		Artifacts: result.Artifacts,
	})
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Run-ID", result.RunID)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// optionsFromQuery reads build options from URL query parameters.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Generator:  q.Get("generator"),
		Labels:     q.Get("labels") == "true",
		Background: q.Get("background"),
	}

	ints := map[string]*int{"width": &opts.Width, "depth": &opts.Depth}
	for name, dst := range ints {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "parameter %s", name)
			}
			*dst = n
		}
	}
	seeds := map[string]*uint64{"seed": &opts.Seed, "data_seed": &opts.DataSeed}
	for name, dst := range seeds {
		if v := q.Get(name); v != "" {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "parameter %s", name)
			}
			*dst = n
		}
	}
	if v := q.Get("seed_element"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "parameter seed_element")
		}
		opts.SeedElement = &n
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "parameter scale")
		}
		opts.Scale = f
	}
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

// fail maps err to a status code and writes a JSON error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	route := routeOf(r)
	s.counters.OnError(r.Context(), r.Method, route, err)
	observability.HTTP().OnError(r.Context(), r.Method, route, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "route", route, "err", err)
	}

	body := map[string]string{"error": errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, status, body)
}

// routeOf returns the matched route pattern, or the raw path before routing.
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		return rc.RoutePattern()
	}
	return r.URL.Path
}

func statusFor(err error) int {
	if errors.As(err, new(*http.MaxBytesError)) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDataset, errors.ErrCodeInvalidGenerator, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
