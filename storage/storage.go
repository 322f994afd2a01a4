// Package storage defines the persistence interface for records grouped
// into named collections.
package storage

import (
	"context"

	"github.com/hyperjump/kura/record"
)

// Stats summarizes the contents of a store.
type Stats struct {
	// Collections counts distinct collections that currently hold records.
	Collections int `json:"collections"`
	// TotalItems counts records across all collections.
	TotalItems int64 `json:"totalItems"`
	// EstimatedSize is the serialized payload size in bytes.
	EstimatedSize int64 `json:"estimatedSize"`
}

// Storage defines record persistence operations. Get returns (nil, nil) when
// the record does not exist; GetAll preserves insertion order, with
// overwritten records keeping their original position.
type Storage interface {
	Put(ctx context.Context, collection, id string, rec record.Record) error
	Get(ctx context.Context, collection, id string) (record.Record, error)
	GetAll(ctx context.Context, collection string) ([]record.Record, error)
	Delete(ctx context.Context, collection, id string) error
	Clear(ctx context.Context, collection string) error
	Collections(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}
