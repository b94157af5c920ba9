package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/flowsketch/flowsketch/pkg/buildinfo"
	apperrors "github.com/flowsketch/flowsketch/pkg/errors"
	"github.com/flowsketch/flowsketch/pkg/pipeline"
	"github.com/flowsketch/flowsketch/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	redisAddr string // Redis address for the stage cache
	mongoURI  string // MongoDB URI for diagram persistence
	noCache   bool   // disable the stage cache
}

// serveCommand creates the serve command exposing the pipeline as an HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline as an HTTP API",
		Long: `Serve the render pipeline as an HTTP API.

Endpoints:
  POST /v1/render         render a spec, optionally persisting the result
  GET  /v1/diagrams       list stored diagrams (newest first)
  GET  /v1/diagrams/{id}  fetch a stored diagram
  DELETE /v1/diagrams/{id}
  GET  /healthz           liveness check
  GET  /metrics           Prometheus metrics

Diagrams are stored in memory unless --mongo is given. The stage cache
uses the local cache directory unless --redis is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for the stage cache (host:port)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for diagram persistence")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the stage cache")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache, opts.redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var st store.Store
	if opts.mongoURI != "" {
		st, err = store.NewMongoStore(ctx, store.MongoConfig{URI: opts.mongoURI})
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
	} else {
		st = store.NewMemoryStore()
	}
	defer st.Close(context.Background())

	srv := newServer(runner, st, c.Logger)
	httpSrv := &http.Server{
		Addr:         opts.addr,
		Handler:      srv.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr, "version", buildinfo.Version)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// server wires the pipeline runner and diagram store into HTTP handlers.
type server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	validate *validator.Validate
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rendersTotal    *prometheus.CounterVec
}

// newServer creates a server with its own metrics registry.
func newServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *server {
	registry := prometheus.NewRegistry()
	s := &server{
		runner:   runner,
		store:    st,
		logger:   logger,
		validate: validator.New(),
		registry: registry,
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowsketch_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowsketch_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		rendersTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowsketch_renders_total",
				Help: "Total number of render requests by engine and outcome",
			},
			[]string{"engine", "outcome"},
		),
	}
	return s
}

// Routes builds the chi router with all endpoints and middleware.
func (s *server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.metricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Get("/diagrams", s.handleListDiagrams)
		r.Get("/diagrams/{id}", s.handleGetDiagram)
		r.Delete("/diagrams/{id}", s.handleDeleteDiagram)
	})

	return r
}

// requestIDMiddleware assigns each request a UUID exposed as X-Request-ID.
func (s *server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records request counts and latency.
func (s *server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = r.URL.Path
		}
		s.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapper.status)).Inc()
		s.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// renderRequest is the POST /v1/render body.
type renderRequest struct {
	Spec        string   `json:"spec" validate:"required"`
	Formats     []string `json:"formats" validate:"omitempty,dive,oneof=svg png dot json"`
	Engine      string   `json:"engine" validate:"omitempty,oneof=native graphviz"`
	Theme       string   `json:"theme" validate:"omitempty,max=64"`
	DefaultKind string   `json:"default_kind" validate:"omitempty,max=64"`
	Save        bool     `json:"save"`
}

// renderResponse is the POST /v1/render reply. Artifact bytes are
// base64-encoded by the JSON marshaller.
type renderResponse struct {
	ID        string            `json:"id,omitempty"`
	Title     string            `json:"title,omitempty"`
	GraphHash string            `json:"graph_hash"`
	Nodes     int               `json:"nodes"`
	Edges     int               `json:"edges"`
	Artifacts map[string][]byte `json:"artifacts"`
	Cached    bool              `json:"cached"`
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, apperrors.ErrCodeInvalidInput, err.Error())
		return
	}

	engine := req.Engine
	if engine == "" {
		engine = pipeline.DefaultEngine
	}
	opts := pipeline.Options{
		Spec:        req.Spec,
		Formats:     req.Formats,
		Engine:      engine,
		Theme:       req.Theme,
		DefaultKind: req.DefaultKind,
		Logger:      s.logger,
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.rendersTotal.WithLabelValues(engine, "error").Inc()
		s.logger.Error("render failed", "err", err)
		code := apperrors.GetCode(err)
		if code == "" {
			code = apperrors.ErrCodeInvalidSpec
		}
		s.respondError(w, http.StatusUnprocessableEntity, code, apperrors.UserMessage(err))
		return
	}
	s.rendersTotal.WithLabelValues(engine, "ok").Inc()

	resp := renderResponse{
		Title:     result.Spec.Title,
		GraphHash: result.GraphHash,
		Nodes:     result.Stats.NodeCount,
		Edges:     result.Stats.EdgeCount,
		Artifacts: result.Artifacts,
		Cached:    result.CacheInfo.RenderHit,
	}

	if req.Save {
		format := pipeline.FormatSVG
		if len(req.Formats) > 0 {
			format = req.Formats[0]
		}
		d := &store.Diagram{
			ID:        uuid.NewString(),
			Title:     result.Spec.Title,
			Spec:      req.Spec,
			Format:    format,
			Artifact:  result.Artifacts[format],
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.Put(r.Context(), d); err != nil {
			s.logger.Error("persist diagram", "err", err)
			s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "failed to persist diagram")
			return
		}
		resp.ID = d.ID
	}

	s.respond(w, http.StatusOK, resp)
}

func (s *server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, apperrors.ErrCodeDiagramNotFound, "diagram not found")
		return
	}
	if err != nil {
		s.logger.Error("get diagram", "id", id, "err", err)
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "storage error")
		return
	}
	s.respond(w, http.StatusOK, d)
}

func (s *server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, apperrors.ErrCodeDiagramNotFound, "diagram not found")
		return
	}
	if err != nil {
		s.logger.Error("delete diagram", "id", id, "err", err)
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "storage error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	diagrams, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("list diagrams", "err", err)
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "storage error")
		return
	}

	// Strip artifact payloads from the listing
	type summary struct {
		ID        string    `json:"id"`
		Title     string    `json:"title,omitempty"`
		Format    string    `json:"format"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]summary, 0, len(diagrams))
	for _, d := range diagrams {
		out = append(out, summary{ID: d.ID, Title: d.Title, Format: d.Format, CreatedAt: d.CreatedAt})
	}
	s.respond(w, http.StatusOK, map[string]any{"diagrams": out})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// respondError writes a JSON error body with a machine-readable code.
func (s *server) respondError(w http.ResponseWriter, status int, code apperrors.Code, msg string) {
	s.respond(w, status, map[string]string{"error": msg, "code": string(code)})
}
