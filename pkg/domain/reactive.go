package domain

// TriggerHostStateChanged is the only reactive trigger kind currently
// defined: the rule is evaluated against the set of hosts whose state
// changed during the step.
const TriggerHostStateChanged = "host_state_changed"

// ConditionType selects the predicate a reactive rule applies to the
// step's host-change set.
type ConditionType string

const (
	// CondAnyHostInStates fires when at least one changed host landed in
	// one of the listed states.
	CondAnyHostInStates ConditionType = "any_host_in_states"
	// CondAllHostsInStates fires when every changed host landed in one of
	// the listed states.
	CondAllHostsInStates ConditionType = "all_hosts_in_states"
	// CondSpecificHost fires when one particular host landed in one
	// particular state.
	CondSpecificHost ConditionType = "specific_host"
)

// Condition is the predicate of a reactive rule, evaluated over the hosts
// that changed state this step (host index -> new state).
type Condition struct {
	Type ConditionType

	// States applies to any_host_in_states / all_hosts_in_states.
	States []string

	// Host and State apply to specific_host.
	Host  int
	State string
}

// Matches evaluates the condition against the step's change set. An empty
// change set never matches: reactive rules respond to observed changes,
// so "all hosts" is not vacuously true.
func (c Condition) Matches(changed map[int]string) bool {
	if len(changed) == 0 {
		return false
	}
	switch c.Type {
	case CondAnyHostInStates:
		for _, state := range changed {
			if containsState(c.States, state) {
				return true
			}
		}
		return false
	case CondAllHostsInStates:
		for _, state := range changed {
			if !containsState(c.States, state) {
				return false
			}
		}
		return true
	case CondSpecificHost:
		return changed[c.Host] == c.State
	default:
		return false
	}
}

func containsState(states []string, s string) bool {
	for _, candidate := range states {
		if candidate == s {
			return true
		}
	}
	return false
}

// ReactiveRule is an event-driven interrupt on an agent's DFA: when its
// condition holds over the step's host changes, the agent jumps to ToState
// unconditionally, discarding whatever state ordinary DFA advancement had
// already set this step.
type ReactiveRule struct {
	Name string

	Trigger string

	// FromState restricts the rule to a specific agent state, or
	// WildcardAny.
	FromState string

	Condition Condition

	ToState string
}
