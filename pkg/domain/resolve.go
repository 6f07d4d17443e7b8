package domain

// ResolveTransition selects the transition descriptor an agent in the
// given state should use: the first descriptor in declaration order whose
// FromState equals the state. Ambiguity between descriptors sharing a
// from_state is resolved by declaration order, first wins.
func ResolveTransition(spec *AgentSpec, state string) (*Transition, error) {
	for i := range spec.Transitions {
		if spec.Transitions[i].FromState == state {
			return &spec.Transitions[i], nil
		}
	}
	return nil, &NoApplicableTransitionError{Agent: spec.Name, State: state}
}
