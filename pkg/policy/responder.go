package policy

import (
	"context"

	"github.com/hexlattice/skirmish/pkg/ports"
)

// Responder is a heuristic blue policy: it remediates the most-compromised
// host whose threat rank reaches a threshold, otherwise falls back to a
// no-op. Threat rank is a host state's position in the ordered host-state
// alphabet (secure first).
type Responder struct {
	rank      map[string]int
	threshold int
	remediate string
	fallback  ports.Decision
}

// NewResponder builds a blue policy that acts once a host reaches the
// given state or worse.
func NewResponder(alphabet []string, threshold, remediate string, fallback ports.Decision) *Responder {
	rank := make(map[string]int, len(alphabet))
	for i, state := range alphabet {
		rank[state] = i
	}
	return &Responder{
		rank:      rank,
		threshold: rank[threshold],
		remediate: remediate,
		fallback:  fallback,
	}
}

// NewProactiveResponder remediates any host that has left the secure
// state (the first entry of the alphabet).
func NewProactiveResponder(alphabet []string, remediate string, fallback ports.Decision) *Responder {
	if len(alphabet) < 2 {
		return NewResponder(alphabet, alphabet[0], remediate, fallback)
	}
	return NewResponder(alphabet, alphabet[1], remediate, fallback)
}

// Decide targets the host with the highest threat rank at or above the
// threshold; ties go to the lowest host index.
func (p *Responder) Decide(_ context.Context, view ports.View) (ports.Decision, error) {
	target := -1
	worst := -1
	for i, state := range view.HostStates {
		r, ok := p.rank[state]
		if !ok || r < p.threshold {
			continue
		}
		if r > worst {
			worst = r
			target = i
		}
	}
	if target < 0 {
		return p.fallback, nil
	}
	return ports.Decision{Action: p.remediate, TargetHost: &target}, nil
}
