package skirmish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hexlattice/skirmish/internal/logging"
	"github.com/hexlattice/skirmish/internal/sim"
	"github.com/hexlattice/skirmish/pkg/domain"
	"github.com/hexlattice/skirmish/pkg/policy"
	"github.com/hexlattice/skirmish/pkg/ports"
	"github.com/hexlattice/skirmish/pkg/scenario"
)

// Simulator is the high-level entry point for the Skirmish library.
// It wraps the internal step engine and provides a simplified API for
// consumers: load a scenario, bind policies, reset, step.
type Simulator struct {
	scenario *domain.Scenario
	engine   *sim.Engine
	policies map[string]ports.Policy
	store    ports.EpisodeStore
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	horizon  int
}

// Option defines a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithPolicy binds a policy to one agent, overriding the default
// transition-table policy.
func WithPolicy(agent string, p ports.Policy) Option {
	return func(s *Simulator) {
		s.policies[agent] = p
	}
}

// WithStore attaches an episode store; Save and Resume use it.
func WithStore(store ports.EpisodeStore) Option {
	return func(s *Simulator) {
		s.store = store
	}
}

// WithHorizon overrides the scenario's episode length.
func WithHorizon(steps int) Option {
	return func(s *Simulator) {
		s.horizon = steps
	}
}

// Load reads a scenario file and builds a simulator over it.
func Load(path string, opts ...Option) (*Simulator, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	return New(sc, opts...)
}

// New builds a simulator for an already-validated scenario. Agents without
// an explicit WithPolicy binding fall back to their declared transition
// table.
func New(sc *domain.Scenario, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		scenario: sc,
		policies: make(map[string]ports.Policy),
	}
	for _, opt := range opts {
		opt(s)
	}

	for i := range sc.Agents {
		agent := &sc.Agents[i]
		if _, ok := s.policies[agent.Name]; !ok {
			s.policies[agent.Name] = policy.NewTable(agent)
		}
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.logger = s.logger.With("scenario", sc.Name)

	engineOpts := []sim.Option{sim.WithLifecycleHooks(s.hooks)}
	if s.horizon > 0 {
		engineOpts = append(engineOpts, sim.WithHorizon(s.horizon))
	}

	engine, err := sim.NewEngine(sc, s.policies, engineOpts...)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// Reset starts a fresh episode.
func (s *Simulator) Reset() {
	s.engine.Reset()
	s.logger.Info("episode reset", "episode", s.engine.EpisodeID(), "horizon", s.engine.Horizon())
}

// Step advances the episode by one step.
func (s *Simulator) Step(ctx context.Context) (*domain.StepSummary, error) {
	sum, err := s.engine.Step(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("step complete",
		"episode", s.engine.EpisodeID(),
		"step", sum.Step,
		"hosts", sum.HostStates,
		"done", sum.Done,
	)
	return sum, nil
}

// Run resets and plays an entire episode to its horizon, returning the full
// trace. The context cancels a run between steps.
func (s *Simulator) Run(ctx context.Context) ([]domain.StepSummary, error) {
	s.Reset()
	for !s.engine.IsDone() {
		if err := ctx.Err(); err != nil {
			return s.engine.Trace(), err
		}
		if _, err := s.engine.Step(ctx); err != nil {
			return s.engine.Trace(), err
		}
	}
	rewards := s.engine.RewardSummary()
	s.logger.Info("episode complete",
		"episode", s.engine.EpisodeID(),
		"steps", s.engine.StepCount(),
		"total_reward", rewards.Total,
	)
	return s.engine.Trace(), nil
}

// Save persists the current episode to the configured store.
func (s *Simulator) Save(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("no episode store configured")
	}
	return s.store.Save(ctx, s.engine.Snapshot())
}

// Resume loads a persisted episode and continues it in this simulator. The
// snapshot must belong to the same scenario.
func (s *Simulator) Resume(ctx context.Context, episodeID string) error {
	if s.store == nil {
		return fmt.Errorf("no episode store configured")
	}
	snap, err := s.store.Load(ctx, episodeID)
	if err != nil {
		return err
	}
	if err := s.engine.Restore(snap); err != nil {
		return err
	}
	s.logger.Info("episode resumed", "episode", episodeID, "step", snap.Step)
	return nil
}

// Scenario returns the immutable scenario model.
func (s *Simulator) Scenario() *domain.Scenario { return s.scenario }

// EpisodeID identifies the current episode.
func (s *Simulator) EpisodeID() string { return s.engine.EpisodeID() }

// Status returns the episode lifecycle state.
func (s *Simulator) Status() domain.EpisodeStatus { return s.engine.Status() }

// IsDone reports whether the episode has reached its horizon.
func (s *Simulator) IsDone() bool { return s.engine.IsDone() }

// StepCount returns the number of completed steps this episode.
func (s *Simulator) StepCount() int { return s.engine.StepCount() }

// HostStates returns a copy of the current host-state vector.
func (s *Simulator) HostStates() []string { return s.engine.HostStates() }

// AgentStates returns a copy of the current agent-state map.
func (s *Simulator) AgentStates() map[string]string { return s.engine.AgentStates() }

// Rewards returns per-agent cumulative rewards.
func (s *Simulator) Rewards() domain.RewardSummary { return s.engine.RewardSummary() }

// Trace returns the step summaries recorded so far this episode.
func (s *Simulator) Trace() []domain.StepSummary { return s.engine.Trace() }

// Snapshot captures the episode for persistence.
func (s *Simulator) Snapshot() *domain.EpisodeSnapshot { return s.engine.Snapshot() }
