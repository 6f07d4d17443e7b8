package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hexlattice/skirmish/pkg/domain"
	"github.com/hexlattice/skirmish/pkg/ports"
)

// DefaultHorizon applies when neither the scenario nor an option sets one.
const DefaultHorizon = 20

// Engine drives episodes over a scenario: it queries each agent's policy,
// executes the chosen actions, advances agent DFAs and re-evaluates
// reactive rules, one fully synchronous step at a time. An Engine must not
// be driven by more than one caller concurrently; independent drivers need
// independent engines.
type Engine struct {
	scenario *domain.Scenario
	states   *StateManager
	executor *ActionExecutor
	ledger   *RewardLedger
	policies map[string]ports.Policy
	order    []string

	horizon int
	hooks   domain.LifecycleHooks

	episodeID string
	status    domain.EpisodeStatus
	step      int
	trace     []domain.StepSummary
}

// Option configures an Engine.
type Option func(*Engine)

// WithHorizon overrides the scenario's episode length.
func WithHorizon(steps int) Option {
	return func(e *Engine) {
		if steps > 0 {
			e.horizon = steps
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine builds an engine for the scenario with one policy per acting
// agent. Every agent in the scenario's turn order must have a policy.
func NewEngine(sc *domain.Scenario, policies map[string]ports.Policy, opts ...Option) (*Engine, error) {
	order := sc.Order()
	for _, name := range order {
		if sc.Agent(name) == nil {
			return nil, &domain.UnknownAgentError{Agent: name}
		}
		if _, ok := policies[name]; !ok {
			return nil, fmt.Errorf("agent %q has no policy", name)
		}
	}

	e := &Engine{
		scenario: sc,
		policies: policies,
		order:    order,
		horizon:  sc.Horizon,
		status:   domain.StatusNotStarted,
	}
	if e.horizon <= 0 {
		e.horizon = DefaultHorizon
	}
	for _, opt := range opts {
		opt(e)
	}

	e.states = NewStateManager(sc)
	e.executor = NewActionExecutor(sc, e.states)
	e.ledger = NewRewardLedger()
	return e, nil
}

// Reset starts a fresh episode: every agent and host returns to its
// declared initial state, rewards and trace clear, and the step counter
// returns to zero. Calling it twice in a row yields identical state.
func (e *Engine) Reset() {
	e.states.Reset()
	e.ledger.Reset()
	e.step = 0
	e.trace = nil
	e.status = domain.StatusRunning
	e.episodeID = uuid.NewString()
}

// Step advances the simulation by one discrete step: both agents act in
// the declared order, then reactive rules are re-evaluated over the full
// set of this step's host changes. The two phases must stay separate —
// reactive transitions are interrupts over the whole step's observations,
// not over a single action.
func (e *Engine) Step(ctx context.Context) (*domain.StepSummary, error) {
	switch e.status {
	case domain.StatusNotStarted:
		return nil, domain.ErrEpisodeNotStarted
	case domain.StatusDone:
		return nil, domain.ErrEpisodeFinished
	}

	e.emitStepStart(ctx)

	before := e.states.HostStates()

	// Phase 0: query every policy and validate every binding against the
	// pre-step state, so a bad decision surfaces before anything commits.
	decisions := make([]ports.Decision, len(e.order))
	for i, agent := range e.order {
		state, err := e.states.AgentState(agent)
		if err != nil {
			return nil, err
		}
		view := ports.View{
			Agent:      agent,
			AgentState: state,
			HostStates: e.states.HostStates(),
			Step:       e.step,
		}
		decision, err := e.policies[agent].Decide(ctx, view)
		if err != nil {
			return nil, err
		}
		if err := e.executor.validateBinding(agent, decision.Action, decision.TargetHost); err != nil {
			return nil, err
		}
		decisions[i] = decision
	}

	// Phase 1: ordinary execution and DFA advancement, in turn order.
	outcomes := make([]domain.ActionOutcome, 0, len(e.order))
	for i, agent := range e.order {
		decision := decisions[i]
		result, err := e.executor.Execute(agent, decision.Action, decision.TargetHost)
		if err != nil {
			return nil, err
		}
		e.ledger.Record(agent, result.Reward)
		if decision.Transition != nil {
			e.states.AdvanceAgent(agent, decision.Transition, result.Success)
		}
		outcome := domain.ActionOutcome{
			Agent:      agent,
			Action:     decision.Action,
			TargetHost: decision.TargetHost,
			Success:    result.Success,
			Reward:     result.Reward,
			HostState:  result.HostState,
		}
		outcomes = append(outcomes, outcome)
		e.emitActionExecuted(ctx, outcome)
	}

	// Phase 2: reactive re-evaluation over the step's complete change set.
	changed := changedHosts(before, e.states.HostStates())
	var reactive map[string]string
	if len(changed) > 0 {
		fired := e.states.EvaluateReactive(changed)
		if len(fired) > 0 {
			reactive = make(map[string]string, len(fired))
			for agent, rule := range fired {
				reactive[agent] = rule.ToState
				e.emitReactiveFired(ctx, agent, rule)
			}
		}
	}

	e.step++
	done := e.step >= e.horizon
	if done {
		e.status = domain.StatusDone
		e.emitEpisodeDone(ctx)
	}

	summary := domain.StepSummary{
		Step:          e.step,
		Outcomes:      outcomes,
		HostStates:    e.states.HostStates(),
		AgentStates:   e.states.AgentStates(),
		ReactiveFired: reactive,
		Done:          done,
	}
	e.trace = append(e.trace, summary)
	return &summary, nil
}

// changedHosts diffs two host-state vectors, mapping each changed index to
// its new state.
func changedHosts(before, after []string) map[int]string {
	changed := make(map[int]string)
	for i := range after {
		if after[i] != before[i] {
			changed[i] = after[i]
		}
	}
	return changed
}

// EpisodeID identifies the current episode; a fresh one is assigned by
// every Reset.
func (e *Engine) EpisodeID() string { return e.episodeID }

// Status returns the episode lifecycle state.
func (e *Engine) Status() domain.EpisodeStatus { return e.status }

// IsDone reports whether the horizon has been reached.
func (e *Engine) IsDone() bool { return e.status == domain.StatusDone }

// StepCount returns the number of completed steps this episode.
func (e *Engine) StepCount() int { return e.step }

// Horizon returns the configured episode length.
func (e *Engine) Horizon() int { return e.horizon }

// Scenario returns the shared, immutable schema model.
func (e *Engine) Scenario() *domain.Scenario { return e.scenario }

// HostStates returns a copy of the current host-state vector.
func (e *Engine) HostStates() []string { return e.states.HostStates() }

// AgentStates returns a copy of the current agent-state map.
func (e *Engine) AgentStates() map[string]string { return e.states.AgentStates() }

// RewardSummary returns per-agent cumulative rewards.
func (e *Engine) RewardSummary() domain.RewardSummary { return e.ledger.Summary() }

// Trace returns the step summaries recorded so far this episode.
func (e *Engine) Trace() []domain.StepSummary {
	out := make([]domain.StepSummary, len(e.trace))
	copy(out, e.trace)
	return out
}

// Snapshot captures the episode for persistence.
func (e *Engine) Snapshot() *domain.EpisodeSnapshot {
	return &domain.EpisodeSnapshot{
		ID:          e.episodeID,
		Scenario:    e.scenario.Name,
		Status:      e.status,
		Step:        e.step,
		HostStates:  e.states.HostStates(),
		AgentStates: e.states.AgentStates(),
		Rewards:     e.ledger.Summary().Totals,
		Trace:       e.Trace(),
	}
}

// Restore resumes a previously snapshotted episode. The snapshot must
// belong to the same scenario.
func (e *Engine) Restore(snap *domain.EpisodeSnapshot) error {
	if snap.Scenario != e.scenario.Name {
		return fmt.Errorf("snapshot belongs to scenario %q, engine runs %q", snap.Scenario, e.scenario.Name)
	}
	if len(snap.HostStates) != e.scenario.Topology.NumHosts {
		return fmt.Errorf("snapshot has %d hosts, scenario has %d", len(snap.HostStates), e.scenario.Topology.NumHosts)
	}
	e.states.Reset()
	for i, state := range snap.HostStates {
		if err := e.states.SetHostState(i, state); err != nil {
			return err
		}
	}
	for agent, state := range snap.AgentStates {
		if err := e.states.SetAgentState(agent, state); err != nil {
			return err
		}
	}
	e.ledger.Restore(snap.Rewards)
	e.episodeID = snap.ID
	e.step = snap.Step
	e.status = snap.Status
	e.trace = append([]domain.StepSummary(nil), snap.Trace...)
	return nil
}

func (e *Engine) eventBase(kind domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      kind,
		EpisodeID: e.episodeID,
		Step:      e.step,
	}
}

func (e *Engine) emitStepStart(ctx context.Context) {
	if e.hooks.OnStepStart != nil {
		e.hooks.OnStepStart(ctx, &domain.StepEvent{EventBase: e.eventBase(domain.EventStepStart)})
	}
}

func (e *Engine) emitActionExecuted(ctx context.Context, outcome domain.ActionOutcome) {
	if e.hooks.OnActionExecuted != nil {
		e.hooks.OnActionExecuted(ctx, &domain.ActionEvent{
			EventBase: e.eventBase(domain.EventActionExecuted),
			Outcome:   outcome,
		})
	}
}

func (e *Engine) emitReactiveFired(ctx context.Context, agent string, rule *domain.ReactiveRule) {
	if e.hooks.OnReactiveFired != nil {
		e.hooks.OnReactiveFired(ctx, &domain.ReactiveEvent{
			EventBase: e.eventBase(domain.EventReactiveFired),
			Agent:     agent,
			Rule:      rule.Name,
			ToState:   rule.ToState,
		})
	}
}

func (e *Engine) emitEpisodeDone(ctx context.Context) {
	if e.hooks.OnEpisodeDone != nil {
		e.hooks.OnEpisodeDone(ctx, &domain.EpisodeEvent{
			EventBase: e.eventBase(domain.EventEpisodeDone),
			Rewards:   e.ledger.Summary(),
		})
	}
}
