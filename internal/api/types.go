// Package api defines the wire types shared by the HTTP server, the CLI
// client, and any other consumer of the kura API.
package api

import "github.com/hyperjump/kura/record"

// SearchHit is one ranked result, optionally enriched with a text preview of
// the stored record.
type SearchHit struct {
	Collection string  `json:"collection"`
	ID         string  `json:"id"`
	Score      float64 `json:"score"`
	IndexedAt  int64   `json:"indexedAt"`
	Preview    string  `json:"preview,omitempty"`
}

// SearchResponse is the shape of GET /api/v1/search responses.
type SearchResponse struct {
	Query   string      `json:"query"`
	Total   int         `json:"total"`
	TookMS  int64       `json:"tookMs"`
	Results []SearchHit `json:"results"`
}

// StoreRecordResponse is returned after a record write.
type StoreRecordResponse struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Status     string `json:"status"`
}

// ListRecordsResponse is the shape of collection listing responses. Records
// keep their storage order.
type ListRecordsResponse struct {
	Collection string          `json:"collection"`
	Total      int             `json:"total"`
	Records    []record.Record `json:"records"`
}

// StatusConfig carries the configuration block of a status response.
type StatusConfig struct {
	DataDir        string `json:"dataDir,omitempty"`
	DatabasePath   string `json:"databasePath,omitempty"`
	BleveIndexPath string `json:"bleveIndexPath,omitempty"`
	CacheBackend   string `json:"cacheBackend,omitempty"`
	SearchBackend  string `json:"searchBackend,omitempty"`
}

// StatusResponse is the shape of GET /api/v1/status responses.
type StatusResponse struct {
	Version         string        `json:"version"`
	Project         string        `json:"project"`
	Collections     int           `json:"collections"`
	TotalItems      int64         `json:"totalItems"`
	SearchIndexSize int           `json:"searchIndexSize"`
	EstimatedSize   int64         `json:"estimatedSize"`
	DiskUsageBytes  *int64        `json:"diskUsageBytes,omitempty"`
	Config          *StatusConfig `json:"config,omitempty"`
}

// WatchDirectoriesResponse lists the currently watched roots.
type WatchDirectoriesResponse struct {
	Directories []string `json:"directories"`
}

// WatchAddRequest asks the server to start watching a directory. Sync
// defaults to true: existing files are ingested immediately.
type WatchAddRequest struct {
	Path string `json:"path"`
	Sync *bool  `json:"sync,omitempty"`
}

// RebuildResponse reports the outcome of an index rebuild.
type RebuildResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
