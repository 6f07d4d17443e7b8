package ports

import (
	"context"
	"testing"
	"time"

	"github.com/hexlattice/skirmish/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunEpisodeStoreContract verifies that an EpisodeStore implementation
// adheres to the interface contract. Adapter test suites call it against
// their concrete store.
func RunEpisodeStoreContract(t *testing.T, store EpisodeStore) {
	ctx := context.Background()
	episodeID := "contract-episode-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := &domain.EpisodeSnapshot{
			ID:       episodeID,
			Scenario: "contract-scenario",
			Status:   domain.StatusRunning,
			Step:     3,
			HostStates: []string{"q1", "q0"},
			AgentStates: map[string]string{
				"Red":  "s2",
				"Blue": "d0",
			},
			Rewards: map[string]float64{"Red": 3, "Blue": 0},
		}

		err := store.Save(ctx, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, episodeID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Step, loaded.Step)
		assert.Equal(t, snap.HostStates, loaded.HostStates)
		assert.Equal(t, snap.AgentStates, loaded.AgentStates)
		assert.Equal(t, snap.Rewards, loaded.Rewards)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+episodeID)
		assert.ErrorIs(t, err, domain.ErrEpisodeNotFound)
	})

	t.Run("Load Isolation", func(t *testing.T) {
		// Mutating a loaded snapshot must not leak back into the store.
		loaded, err := store.Load(ctx, episodeID)
		require.NoError(t, err)
		loaded.AgentStates["Red"] = "tampered"

		again, err := store.Load(ctx, episodeID)
		require.NoError(t, err)
		assert.Equal(t, "s2", again.AgentStates["Red"])
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, episodeID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, episodeID)
		assert.ErrorIs(t, err, domain.ErrEpisodeNotFound, "Load after Delete should report not found")
	})

	t.Run("List", func(t *testing.T) {
		id1 := episodeID + "-1"
		id2 := episodeID + "-2"
		_ = store.Save(ctx, &domain.EpisodeSnapshot{ID: id1, Status: domain.StatusRunning})
		_ = store.Save(ctx, &domain.EpisodeSnapshot{ID: id2, Status: domain.StatusDone})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
