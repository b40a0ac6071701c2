// Package server exposes the analysis pipeline and document store over HTTP.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hyunwoo-dev/paperlens/internal/chunker"
	"github.com/hyunwoo-dev/paperlens/internal/extract"
	"github.com/hyunwoo-dev/paperlens/internal/pipeline"
	"github.com/hyunwoo-dev/paperlens/internal/store"
	"github.com/hyunwoo-dev/paperlens/internal/vectordb"
)

// Config holds server configuration.
type Config struct {
	Port      int
	UploadDir string // directory where uploaded PDFs are kept
	AllowAll  bool   // allow all CORS origins (dev mode)
}

// Analyzer is the slice of the pipeline the server drives. Implemented by
// *pipeline.Pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, text string, meta chunker.Meta) (*pipeline.State, error)
	AnalyzeAndAnswer(ctx context.Context, text string, meta chunker.Meta, question string) (*pipeline.State, error)
	AnswerExisting(ctx context.Context, docID, question string) (string, error)
	Index(ctx context.Context, docID, text string, meta chunker.Meta) (vectordb.Retriever, error)
	HasRetriever(docID string) bool
	CacheRetriever(docID string, r vectordb.Retriever)
	EvictRetriever(docID string)
}

// ExtractFunc turns a stored file into a text document. Defaults to
// extract.File; swappable in tests.
type ExtractFunc func(path string) (*extract.Document, error)

// Server handles uploads, questions, and history queries.
type Server struct {
	cfg        Config
	store      *store.Store
	analyzer   Analyzer
	extractDoc ExtractFunc
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies.
func New(cfg Config, st *store.Store, analyzer Analyzer) *Server {
	s := &Server{
		cfg:        cfg,
		store:      st,
		analyzer:   analyzer,
		extractDoc: extract.File,
	}
	s.router = s.buildRouter()
	return s
}

// SetExtractFunc overrides how stored files are turned into text.
func (s *Server) SetExtractFunc(fn ExtractFunc) {
	s.extractDoc = fn
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/documents", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/", s.handleListDocuments)
		r.Delete("/{id}", s.handleDeleteDocument)
	})

	r.Route("/qa", func(r chi.Router) {
		r.Post("/ask_existing", s.handleAskExisting)
		r.Get("/history/docs", s.handleDocumentsByUser)
		r.Get("/history/{documentID}", s.handleQAHistory)
	})

	r.Get("/users/{userID}", s.handleGetUser)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("paperlens server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
