package items_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skemapi/internal/items"
)

func exerciseStore(t *testing.T, s items.Store) {
	ctx := context.Background()
	_, err := s.Get(ctx, 42)
	assert.ErrorIs(t, err, items.ErrNotFound)
	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	tax := 1.5
	in := items.UpdateItemResponse{
		ItemID:     42,
		Item:       items.Item{Name: "Foo", Price: 50.5, Tax: &tax},
		User:       items.User{Username: "Dave"},
		Importance: 2,
	}
	require.NoError(t, s.Save(ctx, in))
	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	in.Importance = 3
	require.NoError(t, s.Save(ctx, in))
	got, err = s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Importance)

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, in, list[0])

	other := in
	other.ItemID = 7
	require.NoError(t, s.Save(ctx, other))
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []int{7, 42}, []int{list[0].ItemID, list[1].ItemID})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, items.NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	prefix := fmt.Sprintf("skemapi-test-%s", uuid.NewString())
	s := items.NewRedisStore(client, prefix)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Ping(ctx))
	t.Cleanup(func() {
		keys, _ := client.Keys(context.Background(), prefix+":*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
	})
	exerciseStore(t, s)
}
