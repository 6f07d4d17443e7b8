package memory_test

import (
	"testing"

	"github.com/hexlattice/skirmish/pkg/adapters/memory"
	"github.com/hexlattice/skirmish/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunEpisodeStoreContract(t, store)
}
