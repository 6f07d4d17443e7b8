package policy

import (
	"context"

	"github.com/hexlattice/skirmish/pkg/ports"
)

// Static always returns the same decision. With a hostless no-op action it
// is the classic sleep agent.
type Static struct {
	decision ports.Decision
}

// NewStatic builds a fixed-decision policy.
func NewStatic(action string, target *int) *Static {
	return &Static{decision: ports.Decision{Action: action, TargetHost: target}}
}

func (p *Static) Decide(_ context.Context, _ ports.View) (ports.Decision, error) {
	return p.decision, nil
}

// Script replays a fixed decision sequence indexed by step, holding the
// last decision once the sequence is exhausted.
type Script struct {
	steps []ports.Decision
}

// NewScript builds a scripted policy. The sequence must not be empty.
func NewScript(steps []ports.Decision) *Script {
	return &Script{steps: steps}
}

func (p *Script) Decide(_ context.Context, view ports.View) (ports.Decision, error) {
	i := view.Step
	if i >= len(p.steps) {
		i = len(p.steps) - 1
	}
	return p.steps[i], nil
}
