package ports

import (
	"context"

	"github.com/hexlattice/skirmish/pkg/domain"
)

// View is the read-only state an agent observes when choosing an action.
// Agents own no state of their own; everything here is a copy of state
// owned by the engine.
type View struct {
	Agent      string
	AgentState string
	HostStates []string
	Step       int
}

// Decision is one agent's chosen act for the step. TargetHost nil means
// the action is bound hostless. Transition, when non-nil, is the DFA
// descriptor that produced the decision; the engine advances the agent's
// DFA through it using the action's success signal. Policies that are not
// table-driven leave it nil and their agent state stays put (reactive
// rules can still move it).
type Decision struct {
	Action     string
	TargetHost *int
	Transition *domain.Transition
}

// Policy produces one action given externally owned state. Table-driven
// DFA lookup is one variant; scripted and randomized policies are others.
type Policy interface {
	Decide(ctx context.Context, view View) (Decision, error)
}
