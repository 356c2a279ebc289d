// =============================================================================
// AssetDesk - HTTP Server
// =============================================================================
//
// This module is the interactive surface: upload a batch of asset files, get
// back the merged summary, then pull charts and the two downloads for that
// batch. Each upload builds a fresh table from scratch; the server keeps a
// bounded registry of recent batches, addressed by id, so the chart and
// export requests that follow an upload can find its table. Asset data never
// outlives the process.
//
// =============================================================================

package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"assetdesk/internal/config"
	"assetdesk/internal/fontcache"
	"assetdesk/internal/table"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

//go:embed static
var staticFiles embed.FS

// =============================================================================
// BATCH REGISTRY
// =============================================================================

// Batch is one merged upload batch.
type Batch struct {
	// ID is the batch identifier handed back to the client.
	ID string

	// CreatedAt is when the batch was merged.
	CreatedAt time.Time

	// Table is the merged (and possibly serial-rewritten) table.
	Table *table.Table

	// StatusColumn is the resolved status column, or empty when the client
	// still has to pick one from the text-typed candidates.
	StatusColumn string
}

// =============================================================================
// SERVER
// =============================================================================

// Server is the HTTP server for the asset consolidation UI.
type Server struct {
	cfg   *config.Config
	fonts *fontcache.Cache

	router *chi.Mux
	server *http.Server

	// batches holds recent upload batches by id. The table itself is
	// immutable once registered; the mutex only guards the map because
	// net/http serves requests concurrently.
	mu      sync.RWMutex
	batches map[string]*Batch
	order   []string
}

// New creates a Server instance.
func New(cfg *config.Config, fonts *fontcache.Cache) *Server {
	s := &Server{
		cfg:     cfg,
		fonts:   fonts,
		router:  chi.NewRouter(),
		batches: make(map[string]*Batch),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The embed is part of the binary; failing here is a build defect.
		panic(fmt.Sprintf("static files missing from binary: %v", err))
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.router.Get("/", s.handleIndex)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/batches", s.handleCreateBatch)
		r.Get("/batches/{batchID}/summary", s.handleSummary)
		r.Get("/batches/{batchID}/charts/departments.png", s.handleDepartmentChart)
		r.Get("/batches/{batchID}/charts/types.png", s.handleTypeChart)
		r.Get("/batches/{batchID}/export/xlsx", s.handleExportXLSX)
		r.Get("/batches/{batchID}/export/pdf", s.handleExportPDF)
	})
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", s.cfg.ListenAddr).Info("server listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// =============================================================================
// BATCH REGISTRY OPERATIONS
// =============================================================================

// register stores a new batch, evicting the oldest ones beyond the limit.
func (s *Server) register(b *Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batches[b.ID] = b
	s.order = append(s.order, b.ID)

	for len(s.order) > s.cfg.MaxBatches {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.batches, oldest)
	}
}

// batch looks up a batch by id.
func (s *Server) batch(id string) (*Batch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[id]
	return b, ok
}

// newBatchID returns a fresh batch identifier.
func newBatchID() string {
	return uuid.NewString()
}
