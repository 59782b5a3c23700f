// Package docstore is a minimal document collection abstraction: equality
// filters, $set-style updates and single-document atomicity. Records are JSON
// documents keyed by the "_id" field.
package docstore

import (
	"context"
	"errors"
)

// IDField is the key every stored document is identified by.
const IDField = "_id"

var (
	// ErrNoDocuments is returned by FindOne when nothing matches the filter.
	ErrNoDocuments = errors.New("docstore: no documents in result")
	// ErrDuplicateID is returned by InsertOne when the _id is already taken.
	ErrDuplicateID = errors.New("docstore: duplicate _id")
	// ErrDuplicateKey is returned when a write would break a unique field
	// constraint other than _id.
	ErrDuplicateKey = errors.New("docstore: duplicate key")
	// ErrInvalidFilter is returned for filters holding object or array values.
	ErrInvalidFilter = errors.New("docstore: filter values must be scalars")
)

// Filter matches documents whose top-level fields equal every given value.
// Values must be scalars (string, number, bool or null); containment and
// equality only agree on those. An empty filter matches all documents.
type Filter map[string]any

// Set lists top-level fields to overwrite on matched documents.
type Set map[string]any

// InsertResult reports the identifier assigned to an inserted document.
type InsertResult struct {
	InsertedID string `json:"insertedId"`
}

// UpdateResult reports how many documents matched and how many actually changed.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult reports how many documents were removed.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is a named set of documents.
type Collection interface {
	// FindOne decodes the first match into out or returns ErrNoDocuments.
	FindOne(ctx context.Context, filter Filter, out any) error
	// Find decodes every match, in insertion order, into out (a pointer to a slice).
	Find(ctx context.Context, filter Filter, out any) error
	InsertOne(ctx context.Context, doc any) (InsertResult, error)
	UpdateOne(ctx context.Context, filter Filter, set any) (UpdateResult, error)
	UpdateMany(ctx context.Context, filter Filter, set any) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error)
}

// Store hands out collections by name.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
}
