// Package kv provides the named-collection persistence collaborator. Each
// collection is one opaque JSON document read and written whole; the engine
// never issues partial updates.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound indicates the collection has never been written.
var ErrNotFound = errors.New("kv: collection not found")

// Store persists whole collections under stable names.
type Store interface {
	// Load returns the last saved payload for the collection, or ErrNotFound
	// if it was never saved.
	Load(ctx context.Context, collection string) ([]byte, error)

	// Save overwrites the collection payload. Last writer wins.
	Save(ctx context.Context, collection string, payload []byte) error
}
