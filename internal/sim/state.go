package sim

import (
	"github.com/hexlattice/skirmish/pkg/domain"
)

// StateManager is the single source of truth for all mutable simulation
// state: one current state per agent and one per host. The schema model is
// shared read-only; every commit goes through this type, and it is only
// ever driven by the orchestrator's synchronous call chain.
type StateManager struct {
	scenario *domain.Scenario

	hosts  []string
	agents map[string]string
}

// NewStateManager builds a manager for the scenario. Call Reset before
// first use.
func NewStateManager(sc *domain.Scenario) *StateManager {
	return &StateManager{
		scenario: sc,
		hosts:    make([]string, sc.Topology.NumHosts),
		agents:   make(map[string]string, len(sc.Agents)),
	}
}

// Reset sets every host and agent to its declared initial state.
// Idempotent; always succeeds.
func (m *StateManager) Reset() {
	for i := range m.hosts {
		m.hosts[i] = m.scenario.Hosts[i].InitialState
	}
	for i := range m.scenario.Agents {
		a := &m.scenario.Agents[i]
		m.agents[a.Name] = a.InitialState
	}
}

// HostState returns the current state of one host.
func (m *StateManager) HostState(index int) (string, error) {
	if index < 0 || index >= len(m.hosts) {
		return "", &domain.InvalidHostIndexError{Index: index, NumHosts: len(m.hosts)}
	}
	return m.hosts[index], nil
}

// HostStates returns a copy of the host-state vector.
func (m *StateManager) HostStates() []string {
	out := make([]string, len(m.hosts))
	copy(out, m.hosts)
	return out
}

// AgentState returns the current DFA state of one agent.
func (m *StateManager) AgentState(name string) (string, error) {
	state, ok := m.agents[name]
	if !ok {
		return "", &domain.UnknownAgentError{Agent: name}
	}
	return state, nil
}

// AgentStates returns a copy of the agent-state map.
func (m *StateManager) AgentStates() map[string]string {
	out := make(map[string]string, len(m.agents))
	for name, state := range m.agents {
		out[name] = state
	}
	return out
}

// SetHostState commits a host state. Used when restoring a snapshot.
func (m *StateManager) SetHostState(index int, state string) error {
	if index < 0 || index >= len(m.hosts) {
		return &domain.InvalidHostIndexError{Index: index, NumHosts: len(m.hosts)}
	}
	m.hosts[index] = state
	return nil
}

// SetAgentState commits an agent state. Used when restoring a snapshot.
func (m *StateManager) SetAgentState(name, state string) error {
	if _, ok := m.agents[name]; !ok {
		return &domain.UnknownAgentError{Agent: name}
	}
	m.agents[name] = state
	return nil
}

// ResolveTransition selects the descriptor for the agent's current state:
// first match in declaration order. A state with no descriptor is an
// unusable configuration and surfaces as NoApplicableTransitionError.
func (m *StateManager) ResolveTransition(agent string) (*domain.Transition, error) {
	spec := m.scenario.Agent(agent)
	if spec == nil {
		return nil, &domain.UnknownAgentError{Agent: agent}
	}
	state, err := m.AgentState(agent)
	if err != nil {
		return nil, err
	}
	return domain.ResolveTransition(spec, state)
}

// ApplyActionEffect evaluates an action definition against the targeted
// host (host 0 stands in for hostless actions) and commits the resulting
// state when the precondition matches. The boolean is the action's success
// signal: preconditions decide success, and host effects apply exactly on
// success. Failure leaves the host untouched — a modeled outcome, not an
// error.
func (m *StateManager) ApplyActionEffect(def *domain.ActionDef, target *int) (string, bool, error) {
	index := 0
	if target != nil {
		index = *target
	}
	current, err := m.HostState(index)
	if err != nil {
		return "", false, err
	}

	if !def.Matches(current) {
		return current, false, nil
	}

	next := def.Effect.Resolve(current)
	m.hosts[index] = next
	return next, true, nil
}

// AdvanceAgent commits the agent's ordinary DFA outcome for this step:
// OnSuccess when the action succeeded, OnFailure otherwise.
func (m *StateManager) AdvanceAgent(agent string, tr *domain.Transition, success bool) string {
	next := tr.OnFailure
	if success {
		next = tr.OnSuccess
	}
	m.agents[agent] = next
	return next
}

// EvaluateReactive runs phase two of a step: for every agent with reactive
// rules, in declared rule order, the first rule whose from_state constraint
// and condition hold against this step's host changes fires, and the agent
// jumps to its target state — overriding whatever AdvanceAgent committed
// earlier in the step. Returns agent -> fired rule for reporting.
func (m *StateManager) EvaluateReactive(changed map[int]string) map[string]*domain.ReactiveRule {
	fired := make(map[string]*domain.ReactiveRule)
	for i := range m.scenario.Agents {
		spec := &m.scenario.Agents[i]
		current := m.agents[spec.Name]
		for j := range spec.Reactive {
			rule := &spec.Reactive[j]
			if rule.Trigger != domain.TriggerHostStateChanged {
				continue
			}
			if rule.FromState != domain.WildcardAny && rule.FromState != current {
				continue
			}
			if !rule.Condition.Matches(changed) {
				continue
			}
			m.agents[spec.Name] = rule.ToState
			fired[spec.Name] = rule
			break
		}
	}
	return fired
}
