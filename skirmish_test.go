package skirmish_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexlattice/skirmish"
	"github.com/hexlattice/skirmish/pkg/adapters/memory"
	"github.com/hexlattice/skirmish/pkg/policy"
)

func TestRunBabyNet(t *testing.T) {
	sim, err := skirmish.Load("examples/scenarios/baby-net.yaml")
	require.NoError(t, err)

	trace, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, sim.IsDone())
	assert.Equal(t, 20, sim.StepCount())
	require.Len(t, trace, 20)

	// The defender's reactive alarm keeps Red pinned on the web host: every
	// odd step Red gains a foothold, every even step it escalates just as
	// Blue restores the host, and the all-clear resets Red's chain.
	assert.Contains(t, trace[0].ReactiveFired, "Blue")
	assert.Equal(t, "respond_web", trace[0].ReactiveFired["Blue"])
	assert.Contains(t, trace[1].ReactiveFired, "Red")
	assert.Equal(t, "s0", trace[1].ReactiveFired["Red"])
	assert.Equal(t, []string{"q0", "q0", "q0"}, trace[19].HostStates)

	rewards := sim.Rewards()
	assert.Equal(t, 30.0, rewards.Totals["Red"])
	assert.Equal(t, -10.0, rewards.Totals["Blue"])
}

func TestRunIsDeterministic(t *testing.T) {
	ctx := context.Background()

	run := func() []string {
		sim, err := skirmish.Load("examples/scenarios/baby-net.yaml")
		require.NoError(t, err)
		trace, err := sim.Run(ctx)
		require.NoError(t, err)

		out := make([]string, len(trace))
		for i, step := range trace {
			out[i] = step.HostStates[0] + step.HostStates[1] + step.HostStates[2]
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestSaveAndResume(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	sim, err := skirmish.Load("examples/scenarios/minimal.yaml", skirmish.WithStore(store))
	require.NoError(t, err)

	sim.Reset()
	_, err = sim.Step(ctx)
	require.NoError(t, err)
	_, err = sim.Step(ctx)
	require.NoError(t, err)
	require.NoError(t, sim.Save(ctx))
	episodeID := sim.EpisodeID()

	other, err := skirmish.Load("examples/scenarios/minimal.yaml", skirmish.WithStore(store))
	require.NoError(t, err)
	require.NoError(t, other.Resume(ctx, episodeID))

	assert.Equal(t, episodeID, other.EpisodeID())
	assert.Equal(t, 2, other.StepCount())
	assert.Equal(t, sim.HostStates(), other.HostStates())
	assert.Equal(t, sim.Rewards(), other.Rewards())

	a, err := sim.Step(ctx)
	require.NoError(t, err)
	b, err := other.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResumeWithoutStore(t *testing.T) {
	sim, err := skirmish.Load("examples/scenarios/minimal.yaml")
	require.NoError(t, err)

	err = sim.Resume(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no episode store configured")
}

func TestWithPolicyOverride(t *testing.T) {
	// A sleeping attacker never touches the host.
	sim, err := skirmish.Load("examples/scenarios/minimal.yaml",
		skirmish.WithPolicy("Red", policy.NewStatic("Recon", nil)),
	)
	require.NoError(t, err)

	trace, err := sim.Run(context.Background())
	require.NoError(t, err)

	for _, step := range trace {
		assert.Equal(t, []string{"q0"}, step.HostStates)
	}
	assert.Equal(t, 0.0, sim.Rewards().Total)
}

func TestWithHorizon(t *testing.T) {
	sim, err := skirmish.Load("examples/scenarios/minimal.yaml", skirmish.WithHorizon(2))
	require.NoError(t, err)

	trace, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, trace, 2)
	assert.True(t, sim.IsDone())
}
