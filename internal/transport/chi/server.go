// Package chi is the HTTP surface of the query server: static files from a
// document root plus the search, metadata, health and metrics endpoints.
package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pdfctx/internal/domain"
	logpkg "github.com/kailas-cloud/pdfctx/internal/logger"
	"github.com/kailas-cloud/pdfctx/internal/metrics"
	healthuc "github.com/kailas-cloud/pdfctx/internal/usecase/health"
	searchuc "github.com/kailas-cloud/pdfctx/internal/usecase/search"
)

// Paths served by the API routes.
const (
	SearchPath   = "/api/search"
	MetadataPath = "/api/metadata"
	HealthPath   = "/healthz"
	MetricsPath  = "/metrics"
)

// route is one dispatch table entry. The first entry whose match returns
// true handles the request.
type route struct {
	name    string
	match   func(r *http.Request) bool
	handler http.Handler
}

// Server dispatches requests through an ordered route table.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	logger *zap.Logger
	routes []route
}

// NewServer creates the HTTP server. root is the static document root.
func NewServer(search *searchuc.Service, health *healthuc.Service, root string, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}

	// Order matters: preflight first, exact and prefix API routes next,
	// static files last.
	s.routes = []route{
		{"preflight", isMethod(http.MethodOptions), http.HandlerFunc(s.Preflight)},
		{"search", getPath(SearchPath), http.HandlerFunc(s.Search)},
		{"metadata", getPrefix(MetadataPath), http.HandlerFunc(s.Metadata)},
		{"health", getPath(HealthPath), http.HandlerFunc(s.HealthCheck)},
		{"metrics", getPath(MetricsPath), promhttp.Handler()},
		{"static", isMethod(http.MethodGet, http.MethodHead), staticHandler(root)},
		{"unsupported", func(*http.Request) bool { return true }, http.HandlerFunc(s.Unsupported)},
	}
	for i := range s.routes {
		s.routes[i].handler = metrics.Instrument(s.routes[i].name, s.routes[i].handler)
	}

	return s
}

// Router wraps the dispatcher with the middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(Recoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(CORSMiddleware)

	r.Handle("/*", s)
	// chi rejects methods it does not know before reaching any handler.
	r.MethodNotAllowed(s.ServeHTTP)
	return r
}

// ServeHTTP dispatches r to the first matching route.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, rt := range s.routes {
		if rt.match(r) {
			rt.handler.ServeHTTP(w, r)
			return
		}
	}
}

// Preflight handles OPTIONS on any path. CORS headers come from the middleware.
func (s *Server) Preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Search handles GET /api/search?q=<text>&topK=<n>.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := params.Get("q")

	topK, err := parseTopK(params.Get("topK"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), query, topK)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Metadata handles GET /api/metadata (and any path below it).
func (s *Server) Metadata(w http.ResponseWriter, r *http.Request) {
	resp, err := s.search.Metadata(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if resp.DocumentCount != resp.Metadata.TotalDocuments {
		logpkg.FromContext(r.Context()).Warn("Dataset header disagrees with its documents",
			zap.Int("total_documents", resp.Metadata.TotalDocuments),
			zap.Int("document_count", resp.DocumentCount),
		)
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Unsupported answers every method the server does not implement.
func (s *Server) Unsupported(w http.ResponseWriter, r *http.Request) {
	http.Error(w, fmt.Sprintf("Unsupported method (%q)", r.Method), http.StatusNotImplemented)
}

// fail reports a handler error as a plain-text 500. The server keeps serving.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logpkg.FromContext(r.Context()).Error("Request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// parseTopK reads the topK parameter. Absent or blank means the default.
func parseTopK(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return searchuc.DefaultTopK, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid topK %q: %w", raw, domain.ErrInvalidQuery)
	}
	return n, nil
}

// staticHandler serves files below root. Paths ending in .json are always
// sent as application/json whatever their content sniffs as.
func staticHandler(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".json") {
			w.Header().Set("Content-Type", "application/json")
		}
		files.ServeHTTP(w, r)
	})
}

func isMethod(methods ...string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		for _, m := range methods {
			if r.Method == m {
				return true
			}
		}
		return false
	}
}

func getPath(path string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		return r.Method == http.MethodGet && r.URL.Path == path
	}
}

func getPrefix(prefix string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		return r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, prefix)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
