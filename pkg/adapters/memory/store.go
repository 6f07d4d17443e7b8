// Package memory provides an in-memory ports.EpisodeStore, used as the
// default persistence backend and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hexlattice/skirmish/pkg/domain"
)

// Store implements ports.EpisodeStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.EpisodeSnapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.EpisodeSnapshot),
	}
}

// Save persists the snapshot in memory. The snapshot is deep-copied so
// later mutations by the caller cannot reach the stored value.
func (s *Store) Save(_ context.Context, snap *domain.EpisodeSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[snap.ID] = copySnapshot(snap)
	return nil
}

// Load retrieves a snapshot by episode ID. The returned value is a copy;
// mutating it does not affect the store.
func (s *Store) Load(_ context.Context, id string) (*domain.EpisodeSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.data[id]
	if !ok {
		return nil, domain.ErrEpisodeNotFound
	}
	return copySnapshot(snap), nil
}

// Delete removes a snapshot. Deleting an absent ID is a no-op.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored episode IDs in sorted order.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func copySnapshot(snap *domain.EpisodeSnapshot) *domain.EpisodeSnapshot {
	out := *snap
	out.HostStates = append([]string(nil), snap.HostStates...)
	out.Trace = append([]domain.StepSummary(nil), snap.Trace...)
	if snap.AgentStates != nil {
		out.AgentStates = make(map[string]string, len(snap.AgentStates))
		for k, v := range snap.AgentStates {
			out.AgentStates[k] = v
		}
	}
	if snap.Rewards != nil {
		out.Rewards = make(map[string]float64, len(snap.Rewards))
		for k, v := range snap.Rewards {
			out.Rewards[k] = v
		}
	}
	return &out
}
