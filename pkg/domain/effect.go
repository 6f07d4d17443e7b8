package domain

// EffectKind discriminates the action-effect variants. Representing the
// effect as a closed tagged variant (instead of an open map) lets the
// loader check exhaustiveness once, at load time.
type EffectKind int

const (
	// EffectFixed moves the host to a single declared state.
	EffectFixed EffectKind = iota
	// EffectSame leaves the host state unchanged.
	EffectSame
	// EffectConditional maps the host's current state to a target state,
	// with a mandatory default for states not enumerated.
	EffectConditional
)

// Effect is the host-state transformation an action applies.
type Effect struct {
	Kind EffectKind

	// Target is the destination state for EffectFixed.
	Target string

	// Cases and Default drive EffectConditional.
	Cases   map[string]string
	Default string
}

// FixedEffect moves the host to the given state.
func FixedEffect(state string) Effect {
	return Effect{Kind: EffectFixed, Target: state}
}

// SameEffect is a no-op on the host state.
func SameEffect() Effect {
	return Effect{Kind: EffectSame}
}

// ConditionalEffect resolves by current state with a default fallback.
func ConditionalEffect(cases map[string]string, def string) Effect {
	return Effect{Kind: EffectConditional, Cases: cases, Default: def}
}

// Resolve computes the resulting host state for a host currently in the
// given state. It is pure: resolution never depends on anything but the
// effect definition and the current state.
func (e Effect) Resolve(current string) string {
	switch e.Kind {
	case EffectFixed:
		return e.Target
	case EffectConditional:
		if to, ok := e.Cases[current]; ok {
			return to
		}
		return e.Default
	default:
		return current
	}
}
