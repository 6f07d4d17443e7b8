package ports

import (
	"context"

	"github.com/hexlattice/skirmish/pkg/domain"
)

// EpisodeStore persists episode snapshots, enabling pause-and-resume runs
// and post-hoc trace inspection.
type EpisodeStore interface {
	// Save persists the snapshot under its episode ID.
	Save(ctx context.Context, snap *domain.EpisodeSnapshot) error

	// Load retrieves a snapshot by episode ID.
	// Returns domain.ErrEpisodeNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.EpisodeSnapshot, error)

	// Delete removes a snapshot.
	Delete(ctx context.Context, id string) error

	// List returns the stored episode IDs.
	List(ctx context.Context) ([]string, error)
}
