package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stackmap/pkg/bipart"
	"github.com/matzehuels/stackmap/pkg/observability"
	"github.com/matzehuels/stackmap/pkg/pipeline"
	"github.com/matzehuels/stackmap/pkg/runs"
)

// Defaults for [Config].
const (
	DefaultMaxBodyBytes   = 32 << 20
	DefaultMaxThreads     = 8
	DefaultTimeout        = 5 * time.Minute
	DefaultMaxVertices    = 1 << 20
	DefaultMaxGenerations = 1000
	DefaultMaxPopulation  = 1024
	DefaultMaxWorkspace   = 256 << 20
)

// Config tunes request limits.
type Config struct {
	MaxBodyBytes int64         // Largest accepted request body
	MaxThreads   int           // Upper bound on a request's thread count
	Timeout      time.Duration // Deadline of a request
	MaxVertices  int           // Largest vertex count of a request graph
	Limits       bipart.Limits // Bounds on the GA parameters of a strategy
}

func (c *Config) setDefaults() {
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxThreads <= 0 {
		c.MaxThreads = DefaultMaxThreads
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxVertices <= 0 {
		c.MaxVertices = DefaultMaxVertices
	}
	if c.Limits.MaxGenerations <= 0 {
		c.Limits.MaxGenerations = DefaultMaxGenerations
	}
	if c.Limits.MaxPopulation <= 0 {
		c.Limits.MaxPopulation = DefaultMaxPopulation
	}
	if c.Limits.MaxWorkspace <= 0 {
		c.Limits.MaxWorkspace = DefaultMaxWorkspace
	}
}

// Server holds the handlers' dependencies.
type Server struct {
	runner *pipeline.Runner
	store  runs.Store
	logger *log.Logger
	cfg    Config
}

// New creates a server around runner. Run endpoints use runner.Store and
// answer 404 when it is nil.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	cfg.setDefaults()
	return &Server{runner: runner, store: runner.Store, logger: logger, cfg: cfg}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/map", s.handleMap)
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Get("/{id}", s.handleGetRun)
			r.Delete("/{id}", s.handleDeleteRun)
		})
	})
	return r
}

// logRequests logs every request and reports it to the API hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		observability.API().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.API().OnResponse(ctx, r.Method, r.URL.Path, status, elapsed)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(ctx),
			"duration", elapsed)
	})
}
