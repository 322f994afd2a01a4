package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/kura"
	"github.com/hyperjump/kura/internal/api"
	"github.com/hyperjump/kura/pkg/utils"
	"github.com/hyperjump/kura/record"
	"github.com/hyperjump/kura/storage"
)

const previewLength = 200

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, kura.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, kura.ErrNotInitialized):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	s.logger.Debug("search request", zap.String("query", query))

	start := time.Now()
	results, err := s.store.Search(r.Context(), query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}

	hits := make([]api.SearchHit, 0, len(results))
	for _, res := range results {
		hit := api.SearchHit{
			Collection: res.Collection,
			ID:         res.ID,
			Score:      res.Score,
			IndexedAt:  res.IndexedAt,
		}
		if rec, getErr := s.store.Get(r.Context(), res.Collection, res.ID); getErr == nil && rec != nil {
			hit.Preview = utils.Truncate(record.SearchableText(rec), previewLength)
		}
		hits = append(hits, hit)
	}

	s.respondJSON(w, http.StatusOK, &api.SearchResponse{
		Query:   query,
		Total:   len(hits),
		TookMS:  time.Since(start).Milliseconds(),
		Results: hits,
	})
}

func (s *Server) handleStoreRecord(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	var rec record.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.store.Put(r.Context(), collection, rec)
	if err != nil {
		s.logger.Error("store record failed", zap.String("collection", collection), zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, &api.StoreRecordResponse{
		Collection: collection,
		ID:         id,
		Status:     "stored",
	})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	rec, err := s.store.Get(r.Context(), collection, id)
	if err != nil {
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	if rec == nil {
		s.respondError(w, http.StatusNotFound, "record not found")
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	records, err := s.store.GetAll(r.Context(), collection)
	if err != nil {
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, &api.ListRecordsResponse{
		Collection: collection,
		Total:      len(records),
		Records:    records,
	})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete record request", zap.String("collection", collection), zap.String("id", id))

	if err := s.store.Delete(r.Context(), collection, id); err != nil {
		s.logger.Error("delete failed", zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleClearCollection(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	s.logger.Debug("clear collection request", zap.String("collection", collection))

	if err := s.store.Clear(r.Context(), collection); err != nil {
		s.logger.Error("clear failed", zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RebuildIndex(r.Context()); err != nil {
		s.logger.Error("rebuild failed", zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, &api.RebuildResponse{Status: "rebuilt"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	if stats == nil {
		s.respondError(w, http.StatusServiceUnavailable, "stats unavailable")
		return
	}

	resp := &api.StatusResponse{
		Version:         stats.Version,
		Project:         stats.ProjectName,
		Collections:     stats.Collections,
		TotalItems:      stats.TotalItems,
		SearchIndexSize: stats.SearchIndexSize,
		EstimatedSize:   stats.EstimatedSize,
	}
	if s.cfg != nil {
		resp.Config = &api.StatusConfig{
			DataDir:        s.cfg.DataDir,
			DatabasePath:   s.cfg.DatabasePath(),
			BleveIndexPath: s.cfg.BleveIndexPath(),
			CacheBackend:   s.cfg.Cache.Backend,
			SearchBackend:  s.cfg.Search.Backend,
		}
		if diskBytes, diskErr := storage.DiskUsage(s.cfg.DatabasePath(), s.cfg.BleveIndexPath()); diskErr == nil {
			resp.DiskUsageBytes = &diskBytes
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWatchList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, &api.WatchDirectoriesResponse{Directories: s.watch.Directories()})
}

func (s *Server) handleWatchAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req api.WatchAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}

	syncExisting := true
	if req.Sync != nil {
		syncExisting = *req.Sync
	}
	s.logger.Debug("watch add request", zap.String("path", abs), zap.Bool("sync", syncExisting))
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("watch add failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Path != "" {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("watch remove request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

// persistWatchDirectories writes the current watch roots back to the config
// file, when one was given. Best effort.
func (s *Server) persistWatchDirectories() {
	if s.configPath == "" || s.cfg == nil {
		return
	}
	s.cfgMu.Lock()
	s.cfg.Watch.Directories = s.watch.Directories()
	err := kura.Save(s.configPath, s.cfg)
	s.cfgMu.Unlock()
	if err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, api.ErrorResponse{Error: message})
}
