package policy

import (
	"context"

	"github.com/hexlattice/skirmish/pkg/domain"
	"github.com/hexlattice/skirmish/pkg/ports"
)

// Table is the DFA-driven policy: it mechanically reads the agent's
// transition table, selecting the first descriptor declared for the
// agent's current state. It holds no state of its own.
type Table struct {
	spec *domain.AgentSpec
}

// NewTable builds a table policy over the agent's spec.
func NewTable(spec *domain.AgentSpec) *Table {
	return &Table{spec: spec}
}

// Decide resolves the descriptor for the observed agent state. A state
// with no descriptor surfaces NoApplicableTransitionError — an unusable
// configuration, not a retry condition.
func (p *Table) Decide(_ context.Context, view ports.View) (ports.Decision, error) {
	tr, err := domain.ResolveTransition(p.spec, view.AgentState)
	if err != nil {
		return ports.Decision{}, err
	}
	return ports.Decision{
		Action:     tr.Action,
		TargetHost: tr.TargetHost,
		Transition: tr,
	}, nil
}
