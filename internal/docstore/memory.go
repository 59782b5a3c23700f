package docstore

import (
	"context"
	"reflect"
	"sync"

	"github.com/goccy/go-json"
)

// MemoryStore keeps collections in process memory. It backs tests and local
// runs without a database.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
	unique      map[string][]string
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithUniqueField rejects writes that would give two documents of collection
// the same value for field, mirroring a unique index in Postgres.
func WithUniqueField(collection, field string) MemoryOption {
	return func(s *MemoryStore) {
		s.unique[collection] = append(s.unique[collection], field)
	}
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		collections: make(map[string]*memoryCollection),
		unique:      make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collection returns the named collection, creating it on first use.
func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{unique: s.unique[name]}
		s.collections[name] = c
	}
	return c
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

type memoryCollection struct {
	mu     sync.RWMutex
	docs   []document
	unique []string
}

func (c *memoryCollection) FindOne(_ context.Context, filter Filter, out any) error {
	want, err := toFilter(filter)
	if err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, doc := range c.docs {
		if matches(doc, want) {
			raw, err := json.Marshal(doc)
			if err != nil {
				return err
			}
			return decode(raw, out)
		}
	}
	return ErrNoDocuments
}

func (c *memoryCollection) Find(_ context.Context, filter Filter, out any) error {
	want, err := toFilter(filter)
	if err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	found := make([]document, 0)
	for _, doc := range c.docs {
		if matches(doc, want) {
			found = append(found, doc)
		}
	}
	return decodeDocuments(found, out)
}

func (c *memoryCollection) InsertOne(_ context.Context, v any) (InsertResult, error) {
	doc, id, err := prepareInsert(v)
	if err != nil {
		return InsertResult{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.docs {
		if existing[IDField] == id {
			return InsertResult{}, ErrDuplicateID
		}
	}
	if c.conflicts(doc, doc) {
		return InsertResult{}, ErrDuplicateKey
	}
	c.docs = append(c.docs, doc)
	return InsertResult{InsertedID: id}, nil
}

func (c *memoryCollection) UpdateOne(_ context.Context, filter Filter, set any) (UpdateResult, error) {
	return c.update(filter, set, false)
}

func (c *memoryCollection) UpdateMany(_ context.Context, filter Filter, set any) (UpdateResult, error) {
	return c.update(filter, set, true)
}

func (c *memoryCollection) update(filter Filter, set any, many bool) (UpdateResult, error) {
	want, err := toFilter(filter)
	if err != nil {
		return UpdateResult{}, err
	}
	patch, err := prepareSet(set)
	if err != nil {
		return UpdateResult{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var res UpdateResult
	for _, doc := range c.docs {
		if !matches(doc, want) {
			continue
		}
		if c.conflicts(doc, patch) {
			return res, ErrDuplicateKey
		}
		res.MatchedCount++
		if apply(doc, patch) {
			res.ModifiedCount++
		}
		if !many {
			break
		}
	}
	return res, nil
}

func (c *memoryCollection) DeleteOne(_ context.Context, filter Filter) (DeleteResult, error) {
	want, err := toFilter(filter)
	if err != nil {
		return DeleteResult{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, doc := range c.docs {
		if matches(doc, want) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return DeleteResult{DeletedCount: 1}, nil
		}
	}
	return DeleteResult{}, nil
}

// conflicts reports whether writing fields onto self would duplicate a unique
// field value held by another document. Must be called with mu held.
func (c *memoryCollection) conflicts(self, fields document) bool {
	for _, field := range c.unique {
		v, ok := fields[field]
		if !ok || v == nil {
			continue
		}
		for _, other := range c.docs {
			if other[IDField] != self[IDField] && reflect.DeepEqual(other[field], v) {
				return true
			}
		}
	}
	return false
}

func matches(doc, filter document) bool {
	for k, v := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, v) {
			return false
		}
	}
	return true
}

// apply merges patch into doc and reports whether anything changed.
func apply(doc, patch document) bool {
	changed := false
	for k, v := range patch {
		if cur, ok := doc[k]; ok && reflect.DeepEqual(cur, v) {
			continue
		}
		doc[k] = v
		changed = true
	}
	return changed
}
