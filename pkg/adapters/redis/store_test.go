package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/hexlattice/skirmish/pkg/adapters/redis"
	"github.com/hexlattice/skirmish/pkg/domain"
	"github.com/hexlattice/skirmish/pkg/ports"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)

	store := redis.NewFromClient(client)
	ports.RunEpisodeStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newTestClient(t)

	// Create store with 1s TTL
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	episodeID := "episode-ttl"
	snap := &domain.EpisodeSnapshot{
		ID:         episodeID,
		Scenario:   "baby-net",
		Status:     domain.StatusRunning,
		Step:       2,
		HostStates: []string{"q1", "q0"},
	}

	// 1. Save
	err := store.Save(ctx, snap)
	assert.NoError(t, err)

	// 2. Verify List (immediately)
	ids, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, ids, episodeID)

	// 3. Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	// 4. Verify Load (should fail)
	_, err = store.Load(ctx, episodeID)
	assert.ErrorIs(t, err, domain.ErrEpisodeNotFound)

	// 5. Verify List (lazily cleaned up)
	// The index prune compares against time.Now(), so wait past the TTL in
	// real time as well.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newTestClient(t)

	// Custom Prefix
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	episodeID := "my-episode"

	err := store.Save(ctx, &domain.EpisodeSnapshot{ID: episodeID, Scenario: "baby-net"})
	assert.NoError(t, err)

	// Key should be "custom:app:my-episode"
	exists := mr.Exists("custom:app:my-episode")
	assert.True(t, exists, "Expected key with custom prefix to exist")

	// Index should be "custom:app:index"
	existsIndex := mr.Exists("custom:app:index")
	assert.True(t, existsIndex, "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, episodeID)
}
