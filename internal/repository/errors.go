// Package repository gives the services typed access to the record store.
// Each repository is a thin view over one collection: records are decoded
// into model structs on the way out and partial updates are sent as
// patches, so attributes the models do not know about are never lost.
package repository

import (
	"errors"

	"github.com/iliyamo/hotel-management/internal/store"
)

// ErrNotFound is returned when the requested record does not exist.
// It is the store's sentinel so callers can match either.
var ErrNotFound = store.ErrNotFound

// ErrMalformed is returned when a stored record cannot be decoded into
// its model.
var ErrMalformed = errors.New("malformed record")
