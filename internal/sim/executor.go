package sim

import (
	"github.com/hexlattice/skirmish/pkg/domain"
)

// ActionResult is the value object returned by Execute. The executor never
// mutates caller-owned data; all state commits go through the StateManager.
type ActionResult struct {
	Success   bool
	Reward    float64
	HostState string
}

// ActionExecutor validates an agent's chosen action binding and applies
// its effect through the StateManager.
type ActionExecutor struct {
	scenario *domain.Scenario
	states   *StateManager
}

// NewActionExecutor wires the executor to the scenario and state manager.
func NewActionExecutor(sc *domain.Scenario, states *StateManager) *ActionExecutor {
	return &ActionExecutor{scenario: sc, states: states}
}

// Execute runs one action for one agent. All invocation checks happen
// before any state is touched, so a failed call leaves the simulation
// unchanged.
//
// Success is deterministic: the action succeeds precisely when its
// from_state precondition matches the targeted host's current state (host
// 0 for hostless actions). The declared reward pays on success; the
// per-action reward_on_failure (default zero) pays otherwise.
func (x *ActionExecutor) Execute(agent, action string, target *int) (*ActionResult, error) {
	def, err := x.lookup(agent, action, target)
	if err != nil {
		return nil, err
	}

	state, success, err := x.states.ApplyActionEffect(def, target)
	if err != nil {
		return nil, err
	}

	reward := def.RewardOnFailure
	if success {
		reward = def.Reward
	}

	return &ActionResult{
		Success:   success,
		Reward:    reward,
		HostState: state,
	}, nil
}

// validateBinding runs every invocation check without touching state, so
// the orchestrator can reject a whole step before any commit.
func (x *ActionExecutor) validateBinding(agent, action string, target *int) error {
	_, err := x.lookup(agent, action, target)
	return err
}

func (x *ActionExecutor) lookup(agent, action string, target *int) (*domain.ActionDef, error) {
	spec := x.scenario.Agent(agent)
	if spec == nil {
		return nil, &domain.UnknownAgentError{Agent: agent}
	}
	def := spec.Action(action)
	if def == nil {
		return nil, &domain.UnknownActionError{Agent: agent, Action: action}
	}

	// An action is hostless if and only if it is bound without a target.
	if def.Hostless != (target == nil) {
		return nil, &domain.InvalidActionBindingError{Agent: agent, Action: action, Hostless: def.Hostless}
	}
	if target != nil && (*target < 0 || *target >= x.scenario.Topology.NumHosts) {
		return nil, &domain.InvalidHostIndexError{Index: *target, NumHosts: x.scenario.Topology.NumHosts}
	}
	return def, nil
}
