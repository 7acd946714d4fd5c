// Package store is the record store behind every hotel collection. Records
// are schema-less JSON objects keyed by a numeric id and grouped into named
// collections (rooms, bookings, ...). Two backends exist: File keeps the
// whole document in memory and writes it back to a single JSON file, MySQL
// keeps one row per record with the body in a JSON column.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no record matches an id or query.
	ErrNotFound = errors.New("store: record not found")

	// ErrDuplicateID is returned when appending a record whose id is taken.
	ErrDuplicateID = errors.New("store: duplicate id")

	// ErrInvalidField is returned for query fields that cannot be addressed.
	ErrInvalidField = errors.New("store: invalid field name")
)

// Store is the repository abstraction used by the domain services.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the record with the given id.
	Get(ctx context.Context, collection string, id int64) (Record, error)
	// Find returns the first record matching q.
	Find(ctx context.Context, collection string, q Query) (Record, error)
	// Filter returns every record matching q in stored order.
	Filter(ctx context.Context, collection string, q Query) ([]Record, error)
	// Append stores rec, assigning the next id when rec has none.
	Append(ctx context.Context, collection string, rec Record) (Record, error)
	// Update merges the top-level keys of patch into the record.
	Update(ctx context.Context, collection string, id int64, patch Record) (Record, error)
	// Replace swaps the whole record, keeping its id.
	Replace(ctx context.Context, collection string, id int64, rec Record) (Record, error)
	// Delete removes the record.
	Delete(ctx context.Context, collection string, id int64) error
	// Close releases the backend.
	Close() error
}
