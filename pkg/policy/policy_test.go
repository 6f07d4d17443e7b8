package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexlattice/skirmish/pkg/domain"
	"github.com/hexlattice/skirmish/pkg/ports"
)

func intPtr(i int) *int { return &i }

func redSpec() *domain.AgentSpec {
	return &domain.AgentSpec{
		Name:         "Red",
		InitialState: "s0",
		States:       []string{"s0", "s1"},
		Actions: map[string]domain.ActionDef{
			"Exploit": {Name: "Exploit", FromState: "q0", Effect: domain.FixedEffect("q1"), Reward: 1},
			"Recon":   {Name: "Recon", FromState: domain.WildcardAny, Effect: domain.SameEffect(), Hostless: true},
		},
		Transitions: []domain.Transition{
			{Name: "foothold", Action: "Exploit", TargetHost: intPtr(0), FromState: "s0", OnSuccess: "s1", OnFailure: "s0"},
			{Name: "hold", Action: "Recon", FromState: "s1", OnSuccess: "s1", OnFailure: "s1"},
		},
	}
}

func TestTableFollowsTransitionTable(t *testing.T) {
	p := NewTable(redSpec())
	ctx := context.Background()

	d, err := p.Decide(ctx, ports.View{Agent: "Red", AgentState: "s0"})
	require.NoError(t, err)
	assert.Equal(t, "Exploit", d.Action)
	require.NotNil(t, d.TargetHost)
	assert.Equal(t, 0, *d.TargetHost)
	require.NotNil(t, d.Transition)
	assert.Equal(t, "foothold", d.Transition.Name)

	d, err = p.Decide(ctx, ports.View{Agent: "Red", AgentState: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "Recon", d.Action)
	assert.Nil(t, d.TargetHost)
}

func TestTableUnknownState(t *testing.T) {
	p := NewTable(redSpec())

	_, err := p.Decide(context.Background(), ports.View{Agent: "Red", AgentState: "nowhere"})
	var noTr *domain.NoApplicableTransitionError
	require.ErrorAs(t, err, &noTr)
}

func TestRandomIsReproducible(t *testing.T) {
	view := ports.View{Agent: "Red", HostStates: []string{"q0", "q0", "q0"}}
	ctx := context.Background()

	run := func() []ports.Decision {
		p := NewRandom(redSpec(), 42)
		out := make([]ports.Decision, 10)
		for i := range out {
			d, err := p.Decide(ctx, view)
			require.NoError(t, err)
			out[i] = d
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestRandomRespectsHostlessBinding(t *testing.T) {
	p := NewRandom(redSpec(), 7)
	view := ports.View{Agent: "Red", HostStates: []string{"q0", "q0"}}

	for i := 0; i < 50; i++ {
		d, err := p.Decide(context.Background(), view)
		require.NoError(t, err)
		switch d.Action {
		case "Recon":
			assert.Nil(t, d.TargetHost)
		case "Exploit":
			require.NotNil(t, d.TargetHost)
			assert.GreaterOrEqual(t, *d.TargetHost, 0)
			assert.Less(t, *d.TargetHost, 2)
		default:
			t.Fatalf("unexpected action %q", d.Action)
		}
	}
}

func TestKillChainWorksDeepestRungFirst(t *testing.T) {
	p := NewKillChain([]Rung{
		{State: "q2", Action: "Impact"},
		{State: "q1", Action: "Escalate"},
		{State: "q0", Action: "Exploit"},
	}, ports.Decision{Action: "Recon"})
	ctx := context.Background()

	d, err := p.Decide(ctx, ports.View{HostStates: []string{"q0", "q1", "q0"}})
	require.NoError(t, err)
	assert.Equal(t, "Escalate", d.Action)
	assert.Equal(t, 1, *d.TargetHost)

	d, err = p.Decide(ctx, ports.View{HostStates: []string{"q2", "q1", "q0"}})
	require.NoError(t, err)
	assert.Equal(t, "Impact", d.Action)
	assert.Equal(t, 0, *d.TargetHost)
}

func TestKillChainFallsBack(t *testing.T) {
	p := NewKillChain([]Rung{{State: "q0", Action: "Exploit"}}, ports.Decision{Action: "Recon"})

	d, err := p.Decide(context.Background(), ports.View{HostStates: []string{"q3", "q3"}})
	require.NoError(t, err)
	assert.Equal(t, "Recon", d.Action)
	assert.Nil(t, d.TargetHost)
}

func TestResponderTargetsWorstHostAtThreshold(t *testing.T) {
	alphabet := []string{"q0", "q1", "q2", "q3"}
	p := NewResponder(alphabet, "q2", "Restore", ports.Decision{Action: "Monitor"})
	ctx := context.Background()

	// q1 is below threshold; nothing to do.
	d, err := p.Decide(ctx, ports.View{HostStates: []string{"q1", "q0"}})
	require.NoError(t, err)
	assert.Equal(t, "Monitor", d.Action)

	// The q3 host outranks the q2 host.
	d, err = p.Decide(ctx, ports.View{HostStates: []string{"q2", "q3", "q2"}})
	require.NoError(t, err)
	assert.Equal(t, "Restore", d.Action)
	assert.Equal(t, 1, *d.TargetHost)

	// Ties go to the lowest index.
	d, err = p.Decide(ctx, ports.View{HostStates: []string{"q0", "q2", "q2"}})
	require.NoError(t, err)
	assert.Equal(t, 1, *d.TargetHost)
}

func TestProactiveResponderReactsToAnyDeparture(t *testing.T) {
	alphabet := []string{"q0", "q1", "q2"}
	p := NewProactiveResponder(alphabet, "Restore", ports.Decision{Action: "Monitor"})

	d, err := p.Decide(context.Background(), ports.View{HostStates: []string{"q0", "q1"}})
	require.NoError(t, err)
	assert.Equal(t, "Restore", d.Action)
	assert.Equal(t, 1, *d.TargetHost)
}

func TestStaticAlwaysReturnsSameDecision(t *testing.T) {
	p := NewStatic("Sleep", nil)

	for i := 0; i < 3; i++ {
		d, err := p.Decide(context.Background(), ports.View{Step: i})
		require.NoError(t, err)
		assert.Equal(t, "Sleep", d.Action)
		assert.Nil(t, d.TargetHost)
	}
}

func TestScriptIndexesByStepAndHoldsLast(t *testing.T) {
	p := NewScript([]ports.Decision{
		{Action: "Exploit", TargetHost: intPtr(0)},
		{Action: "Escalate", TargetHost: intPtr(0)},
	})
	ctx := context.Background()

	d, err := p.Decide(ctx, ports.View{Step: 0})
	require.NoError(t, err)
	assert.Equal(t, "Exploit", d.Action)

	d, err = p.Decide(ctx, ports.View{Step: 1})
	require.NoError(t, err)
	assert.Equal(t, "Escalate", d.Action)

	d, err = p.Decide(ctx, ports.View{Step: 9})
	require.NoError(t, err)
	assert.Equal(t, "Escalate", d.Action)
}
