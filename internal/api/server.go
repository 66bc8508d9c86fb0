// Package api exposes the growth pipeline over HTTP.
//
// Routes:
//
//	POST /v1/grow     grow an STL mesh (binary or ASCII STL body,
//	                  growth parameters as query values)
//	GET  /v1/presets  list the built-in growth configurations
//	GET  /healthz     liveness probe
//
// Errors are returned as JSON objects {"code": ..., "message": ...}
// using the structured error codes from pkg/errors.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mossworks/sprout/pkg/errors"
	"github.com/mossworks/sprout/pkg/growth"
	"github.com/mossworks/sprout/pkg/pipeline"
	"github.com/mossworks/sprout/pkg/stl"
)

// maxBodySize caps uploaded meshes at 64 MiB. A binary STL of that
// size holds well over a million triangles.
const maxBodySize = 64 << 20

// Server handles HTTP requests against a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server around the given runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Routes builds the chi router for the server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/grow", s.handleGrow)
		r.Get("/presets", s.handlePresets)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleGrow reads an STL body, runs the pipeline with parameters from
// the query string, and streams the grown mesh back as binary STL.
func (s *Server) handleGrow(w http.ResponseWriter, r *http.Request) {
	cfg, err := configFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	base, err := stl.Read(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), base, pipeline.Options{
		Config:  cfg,
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("X-Run-Id", result.RunID)
	if err := stl.Write(w, result.Mesh); err != nil {
		// Headers are gone; all we can do is log.
		s.logger.Error("write response", "run", result.RunID, "err", err)
	}
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	type preset struct {
		Name     string  `json:"name"`
		Depth    int     `json:"depth"`
		Children int     `json:"children"`
		Scale    float32 `json:"child_scale"`
		Strategy string  `json:"strategy"`
	}

	var out []preset
	for _, name := range growth.PresetNames() {
		cfg, err := growth.Preset(name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if err := cfg.ValidateAndSetDefaults(); err != nil {
			s.writeError(w, err)
			return
		}
		out = append(out, preset{
			Name:     name,
			Depth:    cfg.Depth,
			Children: cfg.Children,
			Scale:    cfg.ChildScale,
			Strategy: cfg.Strategy.String(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// configFromQuery builds a growth.Config from query parameters.
// Missing parameters keep their defaults; "preset" loads a named
// preset first and other parameters override it.
func configFromQuery(r *http.Request) (growth.Config, error) {
	q := r.URL.Query()

	var cfg growth.Config
	if name := q.Get("preset"); name != "" {
		p, err := growth.Preset(name)
		if err != nil {
			return growth.Config{}, err
		}
		cfg = p
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return growth.Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "seed %q", v)
		}
		cfg = cfg.WithSeed(seed)
	}
	if v := q.Get("depth"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return growth.Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "depth %q", v)
		}
		cfg = cfg.WithDepth(depth)
	}
	if v := q.Get("children"); v != "" {
		children, err := strconv.Atoi(v)
		if err != nil {
			return growth.Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "children %q", v)
		}
		cfg.Children = children
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return growth.Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale %q", v)
		}
		cfg.ChildScale = float32(scale)
	}
	if v := q.Get("strategy"); v != "" {
		strategy, err := growth.ParseStrategy(v)
		if err != nil {
			return growth.Config{}, err
		}
		cfg.Strategy = strategy
	}
	if v := q.Get("max_triangles"); v != "" {
		maxTriangles, err := strconv.Atoi(v)
		if err != nil {
			return growth.Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "max_triangles %q", v)
		}
		cfg.MaxTriangles = maxTriangles
	}
	return cfg, nil
}

// errorStatus maps structured error codes onto HTTP status codes.
var errorStatus = map[errors.Code]int{
	errors.ErrCodeInvalidInput:       http.StatusBadRequest,
	errors.ErrCodeInvalidFormat:      http.StatusBadRequest,
	errors.ErrCodeInvalidStrategy:    http.StatusBadRequest,
	errors.ErrCodeInvalidPreset:      http.StatusBadRequest,
	errors.ErrCodeEmptySelection:     http.StatusBadRequest,
	errors.ErrCodeDegenerateGeometry: http.StatusBadRequest,
	errors.ErrCodeBudgetExceeded:     http.StatusUnprocessableEntity,
}

// writeError responds with a JSON error body derived from err's code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status, ok := errorStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    string(code),
		"message": err.Error(),
	})
}
