package kura

import (
	"go.uber.org/zap"

	"github.com/hyperjump/kura/cache"
	"github.com/hyperjump/kura/search"
	"github.com/hyperjump/kura/storage"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a logger for structured diagnostics. Without one the
// Store stays silent.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithStorage supplies a Storage instead of the SQLite one Initialize would
// build from config. Must be set before Initialize.
func WithStorage(st storage.Storage) Option {
	return func(s *Store) { s.storage = st }
}

// WithCache supplies a Cache instead of the one Initialize would build from
// config. Must be set before Initialize.
func WithCache(c cache.Cache) Option {
	return func(s *Store) { s.cache = c }
}

// WithIndex supplies a search Index instead of the one Initialize would
// build from config. Must be set before Initialize.
func WithIndex(idx search.Index) Option {
	return func(s *Store) { s.index = idx }
}
