// Package server exposes the Autolist REST API: generate a listing
// from a social media post, edit it in an in-memory session, validate
// it, and export it as JSON, CSV, HTML or PDF.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"autolist/catalog"
	"autolist/config"
	"autolist/export"
	"autolist/generator"
	"autolist/models"
	"autolist/services"
	"autolist/utils"
)

// PostFetcher retrieves a public social media post.
type PostFetcher interface {
	Fetch(ctx context.Context, url string) (*models.RawPost, error)
}

// Server wires the pipeline components behind the HTTP API.
type Server struct {
	cfg        *config.Config
	logger     *utils.Logger
	fetcher    PostFetcher
	gen        *generator.Generator
	normalizer *services.Normalizer
	validator  *services.Validator
	analytics  *services.AnalyticsService
	catalog    *catalog.Catalog
	exporter   *export.Exporter
	sessions   *sessionStore
}

// Options carries the dependencies for New. All fields are required
// except Fetcher, which may be nil when post-URL generation is
// disabled (caption-only deployments).
type Options struct {
	Config     *config.Config
	Logger     *utils.Logger
	Fetcher    PostFetcher
	Generator  *generator.Generator
	Normalizer *services.Normalizer
	Validator  *services.Validator
	Analytics  *services.AnalyticsService
	Catalog    *catalog.Catalog
	Exporter   *export.Exporter
}

// New creates the Server.
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Logger == nil || opts.Generator == nil ||
		opts.Normalizer == nil || opts.Validator == nil || opts.Analytics == nil ||
		opts.Catalog == nil || opts.Exporter == nil {
		return nil, errors.New("server: missing required dependency")
	}
	return &Server{
		cfg:        opts.Config,
		logger:     opts.Logger,
		fetcher:    opts.Fetcher,
		gen:        opts.Generator,
		normalizer: opts.Normalizer,
		validator:  opts.Validator,
		analytics:  opts.Analytics,
		catalog:    opts.Catalog,
		exporter:   opts.Exporter,
		sessions:   newSessionStore(),
	}, nil
}

// Routes builds the router with middleware applied.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)
	api.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/generate/batch", s.handleGenerateBatch).Methods(http.MethodPost)
	api.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)
	api.HandleFunc("/export", s.handleExport).Methods(http.MethodPost)
	api.HandleFunc("/listings/{id}", s.handleListingGet).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id}", s.handleListingUpdate).Methods(http.MethodPut)
	api.HandleFunc("/listings/{id}/analytics", s.handleListingAnalytics).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id}/export/{format}", s.handleListingExport).Methods(http.MethodPost)

	var h http.Handler = r
	h = corsMiddleware(s.cfg.CORSOrigins)(h)
	h = loggingMiddleware(s.logger)(h)
	h = recoveryMiddleware(s.logger)(h)
	return h
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
