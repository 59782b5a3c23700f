package repository

import (
	"errors"

	"github.com/spec-kit/estate-service/internal/docstore"
)

// Collection names in the document store.
const (
	UsersCollection      = "users"
	PropertiesCollection = "properties"
	WishlistCollection   = "wishlist"
	ReviewsCollection    = "reviews"
	OffersCollection     = "offers"
	PaymentsCollection   = "payments"
	// ClaimsCollection holds one document per property with an accepted
	// offer, keyed by property id.
	ClaimsCollection = "property_claims"
)

var (
	// ErrNotFound is returned when a lookup expecting one record finds none.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write collides with a unique key.
	ErrDuplicate = errors.New("duplicate record")
)

// NewMemoryStore returns an in-memory document store carrying the same
// unique constraints as the Postgres schema.
func NewMemoryStore() *docstore.MemoryStore {
	return docstore.NewMemoryStore(docstore.WithUniqueField(UsersCollection, "email"))
}

func translate(err error) error {
	switch {
	case errors.Is(err, docstore.ErrNoDocuments):
		return ErrNotFound
	case errors.Is(err, docstore.ErrDuplicateID), errors.Is(err, docstore.ErrDuplicateKey):
		return ErrDuplicate
	}
	return err
}

func byID(id string) docstore.Filter {
	return docstore.Filter{docstore.IDField: id}
}
