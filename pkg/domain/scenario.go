package domain

// WildcardAny matches every state when used as a from_state constraint,
// both on action preconditions and on reactive rules.
const WildcardAny = "any"

// Scenario is the immutable schema model for one simulation: agent DFAs,
// host action-effect tables and reactive rules. It is produced by the
// loader (pkg/scenario), validated before it reaches the engine, and
// shared by reference — nothing in the engine mutates it.
type Scenario struct {
	Name        string
	Description string

	// HostStates is the global host-state alphabet, ordered from secure
	// to compromised by convention (e.g. q0..q3).
	HostStates []string

	// Hosts declares each host and its initial state. Its length always
	// equals Topology.NumHosts after validation.
	Hosts []HostSpec

	// Topology is consumed only to size the host index space; topology
	// effects are not modeled.
	Topology Topology

	// Agents in declaration order. Declaration order is the default turn
	// order within a step.
	Agents []AgentSpec

	// TurnOrder optionally overrides the per-step acting order. Empty
	// means declaration order.
	TurnOrder []string

	// Horizon is the number of steps per episode.
	Horizon int
}

// Topology sizes the flat host index space.
type Topology struct {
	Type     string
	NumHosts int
	Hosts    []string
}

// HostSpec declares a single host.
type HostSpec struct {
	Name         string
	InitialState string
}

// AgentSpec is one agent's DFA: its state alphabet, its ordered transition
// descriptors, its ordered reactive rules and its action table.
type AgentSpec struct {
	Name         string
	InitialState string
	States       []string

	// Transitions in declaration order. Resolution picks the first
	// descriptor whose FromState equals the agent's current state.
	Transitions []Transition

	// Reactive rules in declaration order; first matching rule wins.
	Reactive []ReactiveRule

	Actions map[string]ActionDef
}

// Agent returns the AgentSpec for the named agent, or nil.
func (s *Scenario) Agent(name string) *AgentSpec {
	for i := range s.Agents {
		if s.Agents[i].Name == name {
			return &s.Agents[i]
		}
	}
	return nil
}

// Order returns the acting order for one step: TurnOrder when declared,
// otherwise agent declaration order.
func (s *Scenario) Order() []string {
	if len(s.TurnOrder) > 0 {
		return s.TurnOrder
	}
	names := make([]string, len(s.Agents))
	for i := range s.Agents {
		names[i] = s.Agents[i].Name
	}
	return names
}

// Action returns the named action definition, or nil.
func (a *AgentSpec) Action(name string) *ActionDef {
	if def, ok := a.Actions[name]; ok {
		return &def
	}
	return nil
}

// HasState reports whether state is a member of the agent's alphabet.
func (a *AgentSpec) HasState(state string) bool {
	for _, s := range a.States {
		if s == state {
			return true
		}
	}
	return false
}

// Transition is an agent-level transition descriptor: in a given agent
// state, which action to take, against which host, and where the agent's
// DFA goes depending on the action's success signal.
type Transition struct {
	Name string

	Action string

	// TargetHost is the host index to act on; nil means the action is
	// bound hostless (valid only when the action is declared hostless).
	TargetHost *int

	FromState string
	OnSuccess string
	OnFailure string
}

// ActionDef describes one action's host effect and reward.
type ActionDef struct {
	Name string

	// FromState is the precondition on the targeted host's current state:
	// a specific state or WildcardAny. The action succeeds precisely when
	// the precondition matches.
	FromState string

	Effect Effect

	// Reward is paid when the action succeeds.
	Reward float64

	// RewardOnFailure is paid when the precondition does not match.
	// Defaults to zero.
	RewardOnFailure float64

	// Hostless actions carry no meaningful target; they are evaluated
	// against host index 0 as a fixed placeholder slot.
	Hostless bool
}

// Matches reports whether the precondition accepts the given host state.
func (d *ActionDef) Matches(hostState string) bool {
	return d.FromState == WildcardAny || d.FromState == hostState
}
