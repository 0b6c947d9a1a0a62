package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"statistics-aggregator/internal/application/report"
	"statistics-aggregator/internal/logging"
)

// TraceHeader carries the request trace id in both directions.
const TraceHeader = "X-Trace-Id"

// Service is the report surface served over HTTP.
type Service interface {
	Sections() []report.SectionInfo
	Section(id string) (*report.Section, error)
	Components() []string
	Serve(ctx context.Context, component string, params report.Params) (any, error)
}

// Server exposes the HTTP transport of the statistics service.
type Server struct {
	router  chi.Router
	logger  *logging.Logger
	metrics http.Handler
	mws     []func(http.Handler) http.Handler
}

type Option func(*Server)

// WithMetrics mounts handler on /metrics and instruments every route with mw.
func WithMetrics(handler http.Handler, mw func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.metrics = handler
		if mw != nil {
			s.mws = append(s.mws, mw)
		}
	}
}

// NewServer constructs a chi router that forwards requests to service.
func NewServer(service Service, logger *logging.Logger, opts ...Option) *Server {
	s := &Server{router: chi.NewRouter(), logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(s.mws...)
	s.router.Use(s.trace)

	registerRoutes(s.router, &handler{service: service, logger: logger})
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return s
}

// Router returns the configured chi router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// trace attaches a request scoped logger carrying the trace id.
func (s *Server) trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set(TraceHeader, traceID)

		start := time.Now()
		logger := s.logger.WithTraceID(traceID)
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))

		logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
	})
}

// NewHTTPServer wraps handler with the timeouts used in production.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
