package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"storefront-bff/internal/cache"
)

// Store persists checkout drafts for the lifetime of a checkout session.
type Store interface {
	Get(ctx context.Context, id string) (*Draft, error)
	Put(ctx context.Context, draft *Draft) error
	Delete(ctx context.Context, id string) error
}

const draftKeyPrefix = "checkout:draft:"

// RedisStore keeps drafts in redis with a sliding TTL, so an abandoned
// checkout evaporates on its own.
type RedisStore struct {
	cache *cache.Client
	ttl   time.Duration
}

func NewRedisStore(c *cache.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Draft, error) {
	data, err := s.cache.Get(ctx, draftKeyPrefix+id)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *RedisStore) Put(ctx context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, draftKeyPrefix+draft.ID, data, s.ttl)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, draftKeyPrefix+id)
}

// MemoryStore is an in-process Store used in tests and when running without
// redis. Expiry is checked lazily on Get.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[string]memoryEntry
}

type memoryEntry struct {
	draft     Draft
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		drafts: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.drafts[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.drafts, id)
		return nil, ErrDraftNotFound
	}
	draft := entry.draft
	return &draft, nil
}

func (s *MemoryStore) Put(_ context.Context, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draft.ID] = memoryEntry{
		draft:     *draft,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, id)
	return nil
}
