package payments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/estate-service/internal/domain"
)

// ErrIntentNotFound is returned for unknown, expired or already consumed intents.
var ErrIntentNotFound = errors.New("payment intent not found")

// IntentStore holds pending intents between the two payment phases.
type IntentStore interface {
	Save(ctx context.Context, intent *domain.PaymentIntent, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.PaymentIntent, error)
	// Take atomically returns and removes the intent, so it can be redeemed once.
	Take(ctx context.Context, id string) (*domain.PaymentIntent, error)
}

const intentKeyPrefix = "payment_intent:"

// RedisIntentStore keeps intents as JSON strings with a TTL.
type RedisIntentStore struct {
	client *redis.Client
}

// NewRedisIntentStore wraps a connected client.
func NewRedisIntentStore(client *redis.Client) *RedisIntentStore {
	return &RedisIntentStore{client: client}
}

func (s *RedisIntentStore) Save(ctx context.Context, intent *domain.PaymentIntent, ttl time.Duration) error {
	raw, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode intent: %w", err)
	}
	return s.client.Set(ctx, intentKeyPrefix+intent.ID, raw, ttl).Err()
}

func (s *RedisIntentStore) Get(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	return decodeIntent(s.client.Get(ctx, intentKeyPrefix+id).Bytes())
}

func (s *RedisIntentStore) Take(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	return decodeIntent(s.client.GetDel(ctx, intentKeyPrefix+id).Bytes())
}

func decodeIntent(raw []byte, err error) (*domain.PaymentIntent, error) {
	if errors.Is(err, redis.Nil) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, err
	}
	var intent domain.PaymentIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	return &intent, nil
}

// MemoryIntentStore is the in-process fallback when Redis is not configured.
type MemoryIntentStore struct {
	mu      sync.Mutex
	now     func() time.Time
	intents map[string]memoryIntent
}

type memoryIntent struct {
	intent    domain.PaymentIntent
	expiresAt time.Time
}

// NewMemoryIntentStore returns an empty store.
func NewMemoryIntentStore() *MemoryIntentStore {
	return &MemoryIntentStore{now: time.Now, intents: make(map[string]memoryIntent)}
}

func (s *MemoryIntentStore) Save(_ context.Context, intent *domain.PaymentIntent, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[intent.ID] = memoryIntent{intent: *intent, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryIntentStore) Get(_ context.Context, id string) (*domain.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(id)
}

func (s *MemoryIntentStore) Take(_ context.Context, id string) (*domain.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	delete(s.intents, id)
	return intent, nil
}

// lookup must be called with mu held.
func (s *MemoryIntentStore) lookup(id string) (*domain.PaymentIntent, error) {
	entry, ok := s.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.intents, id)
		return nil, ErrIntentNotFound
	}
	intent := entry.intent
	return &intent, nil
}

// Sweep drops expired intents and reports how many were removed.
func (s *MemoryIntentStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, entry := range s.intents {
		if !now.Before(entry.expiresAt) {
			delete(s.intents, id)
			removed++
		}
	}
	return removed
}
