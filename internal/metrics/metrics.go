// Package metrics publishes simulation counters to Prometheus, fed through
// the engine's lifecycle hooks.
package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hexlattice/skirmish/pkg/domain"
)

// Collector owns the Prometheus instruments for one simulator.
type Collector struct {
	steps    prometheus.Counter
	actions  *prometheus.CounterVec
	reactive *prometheus.CounterVec
	episodes prometheus.Counter
	rewards  *prometheus.GaugeVec
}

// NewCollector builds and registers the instruments on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skirmish_steps_total",
			Help: "Total number of simulation steps executed",
		}),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skirmish_actions_total",
				Help: "Total number of agent actions executed",
			},
			[]string{"agent", "action", "success"},
		),
		reactive: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skirmish_reactive_fired_total",
				Help: "Total number of reactive rule firings",
			},
			[]string{"agent", "rule"},
		),
		episodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skirmish_episodes_completed_total",
			Help: "Total number of episodes run to their horizon",
		}),
		rewards: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skirmish_episode_reward",
				Help: "Cumulative reward of the last completed episode, per agent",
			},
			[]string{"agent"},
		),
	}
	reg.MustRegister(c.steps, c.actions, c.reactive, c.episodes, c.rewards)
	return c
}

// Hooks returns lifecycle hooks that feed the instruments.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepStart: func(_ context.Context, _ *domain.StepEvent) {
			c.steps.Inc()
		},
		OnActionExecuted: func(_ context.Context, e *domain.ActionEvent) {
			c.actions.WithLabelValues(
				e.Outcome.Agent,
				e.Outcome.Action,
				strconv.FormatBool(e.Outcome.Success),
			).Inc()
		},
		OnReactiveFired: func(_ context.Context, e *domain.ReactiveEvent) {
			c.reactive.WithLabelValues(e.Agent, e.Rule).Inc()
		},
		OnEpisodeDone: func(_ context.Context, e *domain.EpisodeEvent) {
			c.episodes.Inc()
			for agent, total := range e.Rewards.Totals {
				c.rewards.WithLabelValues(agent).Set(total)
			}
		},
	}
}
