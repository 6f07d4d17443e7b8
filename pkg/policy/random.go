package policy

import (
	"context"
	"math/rand"
	"sort"

	"github.com/hexlattice/skirmish/pkg/domain"
	"github.com/hexlattice/skirmish/pkg/ports"
)

// Random picks a uniformly random action from the agent's action table and
// a random target host. It is seeded explicitly so runs stay reproducible.
type Random struct {
	actions []domain.ActionDef
	rng     *rand.Rand
}

// NewRandom builds a seeded random policy over the agent's actions.
// Action names are sorted so the same seed always yields the same run.
func NewRandom(spec *domain.AgentSpec, seed int64) *Random {
	names := make([]string, 0, len(spec.Actions))
	for name := range spec.Actions {
		names = append(names, name)
	}
	sort.Strings(names)

	actions := make([]domain.ActionDef, len(names))
	for i, name := range names {
		actions[i] = spec.Actions[name]
	}
	return &Random{
		actions: actions,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Decide picks a random action; hostless actions are bound without a
// target, everything else gets a random host.
func (p *Random) Decide(_ context.Context, view ports.View) (ports.Decision, error) {
	def := p.actions[p.rng.Intn(len(p.actions))]
	decision := ports.Decision{Action: def.Name}
	if !def.Hostless {
		host := p.rng.Intn(len(view.HostStates))
		decision.TargetHost = &host
	}
	return decision, nil
}
