package scenario

import (
	"fmt"

	"github.com/hexlattice/skirmish/pkg/domain"
)

// Validate checks every structural rule a scenario must satisfy before the
// engine will run it: alphabet membership of all referenced states,
// topology/host consistency, action bindings, DFA closure of transition and
// reactive targets. All violations are collected into one AggregateError.
func Validate(sc *domain.Scenario) error {
	v := &validator{scenario: sc}
	v.run()
	if len(v.errs) > 0 {
		return &AggregateError{Errors: v.errs}
	}
	return nil
}

type validator struct {
	scenario *domain.Scenario
	errs     []error
}

func (v *validator) addf(path, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)})
}

func (v *validator) run() {
	sc := v.scenario

	if sc.Name == "" {
		v.addf("name", "scenario name is required")
	}
	if len(sc.HostStates) == 0 {
		v.addf("host_states", "host state alphabet must not be empty")
	}
	v.checkTopology()
	v.checkHosts()
	v.checkTurnOrder()
	if len(sc.Agents) == 0 {
		v.addf("agents", "at least one agent is required")
	}
	for i := range sc.Agents {
		v.checkAgent(&sc.Agents[i])
	}
}

func (v *validator) hostState(s string) bool {
	for _, candidate := range v.scenario.HostStates {
		if candidate == s {
			return true
		}
	}
	return false
}

func (v *validator) checkTopology() {
	top := v.scenario.Topology
	if top.NumHosts < 1 {
		v.addf("topology.num_hosts", "must be at least 1, got %d", top.NumHosts)
	}
	if len(top.Hosts) != top.NumHosts {
		v.addf("topology.hosts", "declares %d host names but num_hosts is %d", len(top.Hosts), top.NumHosts)
	}
	seen := map[string]bool{}
	for _, name := range top.Hosts {
		if seen[name] {
			v.addf("topology.hosts", "duplicate host name %q", name)
		}
		seen[name] = true
	}
}

func (v *validator) checkHosts() {
	for _, host := range v.scenario.Hosts {
		if host.InitialState == "" {
			v.addf("hosts."+host.Name, "initial_state is required")
			continue
		}
		if !v.hostState(host.InitialState) {
			v.addf("hosts."+host.Name, "initial_state %q is not in the host state alphabet", host.InitialState)
		}
	}
}

func (v *validator) checkTurnOrder() {
	for _, name := range v.scenario.TurnOrder {
		if v.scenario.Agent(name) == nil {
			v.addf("turn_order", "references undeclared agent %q", name)
		}
	}
	seen := map[string]bool{}
	for _, name := range v.scenario.TurnOrder {
		if seen[name] {
			v.addf("turn_order", "agent %q listed more than once", name)
		}
		seen[name] = true
	}
}

func (v *validator) checkAgent(agent *domain.AgentSpec) {
	path := "agents." + agent.Name

	agentState := func(s string) bool {
		for _, candidate := range agent.States {
			if candidate == s {
				return true
			}
		}
		return false
	}

	if len(agent.States) == 0 {
		v.addf(path+".states", "agent state set must not be empty")
	}
	if agent.InitialState == "" {
		v.addf(path+".initial_state", "initial_state is required")
	} else if !agentState(agent.InitialState) {
		v.addf(path+".initial_state", "%q is not an agent state", agent.InitialState)
	}

	for name, def := range agent.Actions {
		v.checkAction(path+".actions."+name, def)
	}

	for _, tr := range agent.Transitions {
		tpath := path + ".transitions." + tr.Name
		def, ok := agent.Actions[tr.Action]
		if !ok {
			v.addf(tpath, "references undefined action %q", tr.Action)
		} else {
			if def.Hostless && tr.TargetHost != nil {
				v.addf(tpath, "action %q is hostless but a target_host is set", tr.Action)
			}
			if !def.Hostless && tr.TargetHost == nil {
				v.addf(tpath, "action %q targets a host but target_host is null", tr.Action)
			}
		}
		if tr.TargetHost != nil {
			if idx := *tr.TargetHost; idx < 0 || idx >= v.scenario.Topology.NumHosts {
				v.addf(tpath, "target_host %d is out of range [0, %d)", idx, v.scenario.Topology.NumHosts)
			}
		}
		if tr.FromState != domain.WildcardAny && !agentState(tr.FromState) {
			v.addf(tpath, "from_state %q is not an agent state", tr.FromState)
		}
		if !agentState(tr.OnSuccess) {
			v.addf(tpath, "on_success %q is not an agent state", tr.OnSuccess)
		}
		if !agentState(tr.OnFailure) {
			v.addf(tpath, "on_failure %q is not an agent state", tr.OnFailure)
		}
	}

	for _, rule := range agent.Reactive {
		rpath := path + ".reactive_transitions." + rule.Name
		if rule.Trigger != domain.TriggerHostStateChanged {
			v.addf(rpath, "unknown trigger %q", rule.Trigger)
		}
		if rule.FromState != domain.WildcardAny && !agentState(rule.FromState) {
			v.addf(rpath, "from_state %q is not an agent state", rule.FromState)
		}
		if !agentState(rule.ToState) {
			v.addf(rpath, "to_state %q is not an agent state", rule.ToState)
		}
		v.checkCondition(rpath+".condition", rule.Condition)
	}
}

func (v *validator) checkAction(path string, def domain.ActionDef) {
	if def.FromState != domain.WildcardAny && !v.hostState(def.FromState) {
		v.addf(path, "from_state %q is not in the host state alphabet", def.FromState)
	}
	switch def.Effect.Kind {
	case domain.EffectFixed:
		if !v.hostState(def.Effect.Target) {
			v.addf(path, "to_state %q is not in the host state alphabet", def.Effect.Target)
		}
	case domain.EffectSame:
		// nothing to check
	case domain.EffectConditional:
		if !v.hostState(def.Effect.Default) {
			v.addf(path, "conditional default %q is not in the host state alphabet", def.Effect.Default)
		}
		for from, to := range def.Effect.Cases {
			if !v.hostState(from) {
				v.addf(path, "conditional case key %q is not in the host state alphabet", from)
			}
			if !v.hostState(to) {
				v.addf(path, "conditional case value %q is not in the host state alphabet", to)
			}
		}
	default:
		v.addf(path, "action has no effect")
	}
}

func (v *validator) checkCondition(path string, cond domain.Condition) {
	switch cond.Type {
	case domain.CondAnyHostInStates, domain.CondAllHostsInStates:
		if len(cond.States) == 0 {
			v.addf(path, "states list must not be empty")
		}
		for _, s := range cond.States {
			if !v.hostState(s) {
				v.addf(path, "state %q is not in the host state alphabet", s)
			}
		}
	case domain.CondSpecificHost:
		if cond.Host < 0 || cond.Host >= v.scenario.Topology.NumHosts {
			v.addf(path, "host %d is out of range [0, %d)", cond.Host, v.scenario.Topology.NumHosts)
		}
		if !v.hostState(cond.State) {
			v.addf(path, "state %q is not in the host state alphabet", cond.State)
		}
	default:
		v.addf(path, "unknown condition type %q", cond.Type)
	}
}
