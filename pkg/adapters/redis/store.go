// Package redis provides a ports.EpisodeStore backed by Redis, for runs
// that must survive process restarts or be shared between drivers.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/hexlattice/skirmish/pkg/domain"
)

const defaultPrefix = "skirmish:episode:"

// Store implements ports.EpisodeStore on a Redis backend. Snapshots are
// stored as JSON values; an auxiliary sorted set indexes episode IDs with
// their expiry time as score, so List can lazily drop expired entries.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets an expiration on stored snapshots. Zero (the default)
// keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix overrides the key prefix (default "skirmish:episode:").
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewFromClient wraps an existing Redis client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New connects to the given address and wraps the resulting client.
func New(addr string, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save serializes the snapshot and writes it under its episode ID.
func (s *Store) Save(ctx context.Context, snap *domain.EpisodeSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling episode snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.key(snap.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("writing episode to redis: %w", err)
	}

	// Index score is the expiry instant, or +inf for persistent entries.
	score := math.Inf(1)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}
	if err := s.client.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: snap.ID}).Err(); err != nil {
		return fmt.Errorf("indexing episode in redis: %w", err)
	}
	return nil
}

// Load fetches and deserializes one snapshot.
func (s *Store) Load(ctx context.Context, id string) (*domain.EpisodeSnapshot, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrEpisodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading episode from redis: %w", err)
	}

	var snap domain.EpisodeSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling episode snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes a snapshot and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("deleting episode from redis: %w", err)
	}
	if err := s.client.ZRem(ctx, s.indexKey(), id).Err(); err != nil {
		return fmt.Errorf("unindexing episode in redis: %w", err)
	}
	return nil
}

// List returns the stored episode IDs, lazily pruning entries whose TTL
// has passed.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", now).Err(); err != nil {
		return nil, fmt.Errorf("pruning episode index: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing episodes from redis: %w", err)
	}
	return ids, nil
}
