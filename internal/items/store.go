package items

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"
)

// ErrNotFound is returned when no update was recorded for an item.
var ErrNotFound = errors.New("item not found")

// Store records accepted updates.
type Store interface {
	Save(ctx context.Context, u UpdateItemResponse) error
	Get(ctx context.Context, itemID int) (UpdateItemResponse, error)
	// List returns the latest update of every item, ordered by item id.
	List(ctx context.Context) ([]UpdateItemResponse, error)
}

// MemoryStore keeps the latest update per item in memory.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[int]UpdateItemResponse
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: map[int]UpdateItemResponse{}}
}

func (s *MemoryStore) Save(_ context.Context, u UpdateItemResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[u.ItemID] = u
	return nil
}

func (s *MemoryStore) Get(_ context.Context, itemID int) (UpdateItemResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.m[itemID]
	if !ok {
		return UpdateItemResponse{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) List(_ context.Context) ([]UpdateItemResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UpdateItemResponse, 0, len(s.m))
	for _, u := range s.m {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

// RedisStore keeps the latest update per item in Redis and tracks updated
// ids in a set.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore. Keys are namespaced by prefix
// ("items" when empty).
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "items"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(itemID int) string { return fmt.Sprintf("%s:item:%d", s.prefix, itemID) }

func (s *RedisStore) idsKey() string { return s.prefix + ":ids" }

func (s *RedisStore) Save(ctx context.Context, u UpdateItemResponse) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(u.ItemID), data, 0)
	pipe.SAdd(ctx, s.idsKey(), u.ItemID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("items: save %d: %w", u.ItemID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, itemID int) (UpdateItemResponse, error) {
	var u UpdateItemResponse
	data, err := s.client.Get(ctx, s.key(itemID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return u, ErrNotFound
		}
		return u, fmt.Errorf("items: get %d: %w", itemID, err)
	}
	if err := json.Unmarshal(data, &u); err != nil {
		return u, fmt.Errorf("items: decode %d: %w", itemID, err)
	}
	return u, nil
}

func (s *RedisStore) List(ctx context.Context) ([]UpdateItemResponse, error) {
	members, err := s.client.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("items: list: %w", err)
	}
	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("items: list: bad id %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]UpdateItemResponse, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("items: list: %w", err)
	}
	for i, v := range vals {
		data, ok := v.(string)
		if !ok {
			continue
		}
		var u UpdateItemResponse
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			return nil, fmt.Errorf("items: decode %d: %w", ids[i], err)
		}
		out = append(out, u)
	}
	return out, nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }
