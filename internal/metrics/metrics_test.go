package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/hexlattice/skirmish/pkg/domain"
)

func TestCollectorHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnStepStart(ctx, &domain.StepEvent{})
	hooks.OnStepStart(ctx, &domain.StepEvent{})
	hooks.OnActionExecuted(ctx, &domain.ActionEvent{
		Outcome: domain.ActionOutcome{Agent: "Red", Action: "Exploit", Success: true},
	})
	hooks.OnReactiveFired(ctx, &domain.ReactiveEvent{Agent: "Blue", Rule: "alarm"})
	hooks.OnEpisodeDone(ctx, &domain.EpisodeEvent{
		Rewards: domain.RewardSummary{Totals: map[string]float64{"Red": 3, "Blue": -1}},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.steps))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.actions.WithLabelValues("Red", "Exploit", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reactive.WithLabelValues("Blue", "alarm")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.episodes))
	assert.Equal(t, -1.0, testutil.ToFloat64(c.rewards.WithLabelValues("Blue")))
}
