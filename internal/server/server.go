// Package server provides the HTTP API over a kura store.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kura"
)

// WatchService is the watch-directory surface exposed over the API. Nil when
// watching is disabled.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the kura API.
type Server struct {
	store      *kura.Store
	cfg        *kura.Config
	watch      WatchService
	configPath string
	logger     *zap.Logger

	// cfgMu guards cfg while watch changes are persisted back to disk.
	cfgMu  sync.Mutex
	server *http.Server
}

// New creates a server around an initialized store. cfg and watch may be nil;
// configPath enables persisting watch directory changes.
func New(store *kura.Store, cfg *kura.Config, watch WatchService, configPath string, logger *zap.Logger) *Server {
	return &Server{
		store:      store,
		cfg:        cfg,
		watch:      watch,
		configPath: configPath,
		logger:     logger,
	}
}

// Routes builds the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Get("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/status", s.handleStatus)
	r.Post("/api/v1/rebuild", s.handleRebuild)
	r.Post("/api/v1/collections/{collection}/records", s.handleStoreRecord)
	r.Get("/api/v1/collections/{collection}/records", s.handleListRecords)
	r.Delete("/api/v1/collections/{collection}/records", s.handleClearCollection)
	r.Get("/api/v1/collections/{collection}/records/{id}", s.handleGetRecord)
	r.Delete("/api/v1/collections/{collection}/records/{id}", s.handleDeleteRecord)
	r.Get("/api/v1/watch/directories", s.handleWatchList)
	r.Post("/api/v1/watch/directories", s.handleWatchAdd)
	r.Delete("/api/v1/watch/directories", s.handleWatchRemove)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
