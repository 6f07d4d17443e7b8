package policy

import (
	"context"

	"github.com/hexlattice/skirmish/pkg/ports"
)

// Rung pairs a host state with the red action that progresses it. Rungs
// are scanned in declaration order, so list the deepest compromise first
// to prioritize finishing a chain over starting a new one.
type Rung struct {
	State  string
	Action string
}

// KillChain is a heuristic red policy: it walks hosts through a staged
// compromise progression, always working the most-advanced host first.
type KillChain struct {
	rungs    []Rung
	fallback ports.Decision
}

// NewKillChain builds the policy. Fallback is used when no host matches
// any rung (typically a hostless no-op).
func NewKillChain(rungs []Rung, fallback ports.Decision) *KillChain {
	return &KillChain{rungs: rungs, fallback: fallback}
}

// Decide picks the first rung with a matching host, targeting the lowest
// matching host index.
func (p *KillChain) Decide(_ context.Context, view ports.View) (ports.Decision, error) {
	for _, rung := range p.rungs {
		for i, state := range view.HostStates {
			if state == rung.State {
				host := i
				return ports.Decision{Action: rung.Action, TargetHost: &host}, nil
			}
		}
	}
	return p.fallback, nil
}
