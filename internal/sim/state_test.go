package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexlattice/skirmish/pkg/domain"
)

func intPtr(i int) *int { return &i }

// duelScenario is the shared two-agent fixture: a three-host network with a
// four-symbol compromise alphabet, an attacker climbing it and a defender
// with a conditional restore plus reactive rules.
func duelScenario() *domain.Scenario {
	return &domain.Scenario{
		Name:       "duel",
		HostStates: []string{"q0", "q1", "q2", "q3"},
		Topology:   domain.Topology{Type: "flat", NumHosts: 3, Hosts: []string{"web", "db", "dc"}},
		Hosts: []domain.HostSpec{
			{Name: "web", InitialState: "q0"},
			{Name: "db", InitialState: "q0"},
			{Name: "dc", InitialState: "q0"},
		},
		Horizon: 5,
		Agents: []domain.AgentSpec{
			{
				Name:         "Red",
				InitialState: "s0",
				States:       []string{"s0", "s1", "s2"},
				Actions: map[string]domain.ActionDef{
					"Exploit": {
						Name:      "Exploit",
						FromState: "q0",
						Effect:    domain.FixedEffect("q1"),
						Reward:    1,
					},
					"Escalate": {
						Name:            "Escalate",
						FromState:       "q1",
						Effect:          domain.FixedEffect("q2"),
						Reward:          2,
						RewardOnFailure: -0.5,
					},
					"Recon": {
						Name:      "Recon",
						FromState: domain.WildcardAny,
						Effect:    domain.SameEffect(),
						Hostless:  true,
					},
				},
				Transitions: []domain.Transition{
					{Name: "foothold", Action: "Exploit", TargetHost: intPtr(0), FromState: "s0", OnSuccess: "s1", OnFailure: "s0"},
					{Name: "escalate", Action: "Escalate", TargetHost: intPtr(0), FromState: "s1", OnSuccess: "s2", OnFailure: "s1"},
					{Name: "survey", Action: "Recon", FromState: "s2", OnSuccess: "s2", OnFailure: "s2"},
				},
			},
			{
				Name:         "Blue",
				InitialState: "watch",
				States:       []string{"watch", "respond"},
				Actions: map[string]domain.ActionDef{
					"Restore": {
						Name:      "Restore",
						FromState: domain.WildcardAny,
						Effect:    domain.ConditionalEffect(map[string]string{"q1": "q0", "q2": "q0"}, "q0"),
						Reward:    -1,
					},
					"Monitor": {
						Name:      "Monitor",
						FromState: domain.WildcardAny,
						Effect:    domain.SameEffect(),
						Hostless:  true,
					},
				},
				Transitions: []domain.Transition{
					{Name: "clean", Action: "Restore", TargetHost: intPtr(0), FromState: "respond", OnSuccess: "watch", OnFailure: "watch"},
					{Name: "idle", Action: "Monitor", FromState: "watch", OnSuccess: "watch", OnFailure: "watch"},
				},
				Reactive: []domain.ReactiveRule{
					{
						Name:      "alarm",
						Trigger:   domain.TriggerHostStateChanged,
						FromState: "watch",
						Condition: domain.Condition{Type: domain.CondAnyHostInStates, States: []string{"q1", "q2", "q3"}},
						ToState:   "respond",
					},
					{
						Name:      "stand_down",
						Trigger:   domain.TriggerHostStateChanged,
						FromState: "respond",
						Condition: domain.Condition{Type: domain.CondAllHostsInStates, States: []string{"q0"}},
						ToState:   "watch",
					},
				},
			},
		},
	}
}

func newResetManager(t *testing.T) *StateManager {
	t.Helper()
	m := NewStateManager(duelScenario())
	m.Reset()
	return m
}

func TestResetIsIdempotent(t *testing.T) {
	m := newResetManager(t)

	require.NoError(t, m.SetHostState(0, "q3"))
	require.NoError(t, m.SetAgentState("Red", "s2"))

	m.Reset()
	first := m.HostStates()
	firstAgents := m.AgentStates()

	m.Reset()
	assert.Equal(t, first, m.HostStates())
	assert.Equal(t, firstAgents, m.AgentStates())
	assert.Equal(t, []string{"q0", "q0", "q0"}, m.HostStates())
	assert.Equal(t, map[string]string{"Red": "s0", "Blue": "watch"}, m.AgentStates())
}

func TestHostStateBounds(t *testing.T) {
	m := newResetManager(t)

	_, err := m.HostState(3)
	var idxErr *domain.InvalidHostIndexError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, 3, idxErr.Index)

	_, err = m.HostState(-1)
	require.ErrorAs(t, err, &idxErr)
}

func TestApplyActionEffectCommitsOnlyOnMatch(t *testing.T) {
	m := newResetManager(t)
	sc := duelScenario()
	exploit := sc.Agents[0].Actions["Exploit"]
	escalate := sc.Agents[0].Actions["Escalate"]

	// Escalate needs q1; host 0 is q0, so the host must stay untouched.
	state, success, err := m.ApplyActionEffect(&escalate, intPtr(0))
	require.NoError(t, err)
	assert.False(t, success)
	assert.Equal(t, "q0", state)
	assert.Equal(t, []string{"q0", "q0", "q0"}, m.HostStates())

	state, success, err = m.ApplyActionEffect(&exploit, intPtr(0))
	require.NoError(t, err)
	assert.True(t, success)
	assert.Equal(t, "q1", state)

	state, success, err = m.ApplyActionEffect(&escalate, intPtr(0))
	require.NoError(t, err)
	assert.True(t, success)
	assert.Equal(t, "q2", state)
}

func TestApplyActionEffectConditional(t *testing.T) {
	m := newResetManager(t)
	restore := duelScenario().Agents[1].Actions["Restore"]

	require.NoError(t, m.SetHostState(1, "q2"))
	state, success, err := m.ApplyActionEffect(&restore, intPtr(1))
	require.NoError(t, err)
	assert.True(t, success)
	assert.Equal(t, "q0", state)

	// q3 has no explicit case; the default branch applies.
	require.NoError(t, m.SetHostState(1, "q3"))
	state, _, err = m.ApplyActionEffect(&restore, intPtr(1))
	require.NoError(t, err)
	assert.Equal(t, "q0", state)
}

func TestApplyActionEffectHostlessUsesPlaceholder(t *testing.T) {
	m := newResetManager(t)
	recon := duelScenario().Agents[0].Actions["Recon"]

	require.NoError(t, m.SetHostState(0, "q2"))
	state, success, err := m.ApplyActionEffect(&recon, nil)
	require.NoError(t, err)
	assert.True(t, success)
	assert.Equal(t, "q2", state)
	assert.Equal(t, []string{"q2", "q0", "q0"}, m.HostStates())
}

func TestResolveTransitionFirstDeclaredMatchWins(t *testing.T) {
	m := newResetManager(t)

	tr, err := m.ResolveTransition("Red")
	require.NoError(t, err)
	assert.Equal(t, "foothold", tr.Name)

	require.NoError(t, m.SetAgentState("Red", "s1"))
	tr, err = m.ResolveTransition("Red")
	require.NoError(t, err)
	assert.Equal(t, "escalate", tr.Name)
}

func TestResolveTransitionNoApplicable(t *testing.T) {
	sc := duelScenario()
	sc.Agents[0].States = append(sc.Agents[0].States, "stranded")
	m := NewStateManager(sc)
	m.Reset()
	require.NoError(t, m.SetAgentState("Red", "stranded"))

	_, err := m.ResolveTransition("Red")
	var noTr *domain.NoApplicableTransitionError
	require.ErrorAs(t, err, &noTr)
	assert.Equal(t, "stranded", noTr.State)
}

func TestAdvanceAgent(t *testing.T) {
	m := newResetManager(t)
	tr := &duelScenario().Agents[0].Transitions[0]

	assert.Equal(t, "s1", m.AdvanceAgent("Red", tr, true))
	m.Reset()
	assert.Equal(t, "s0", m.AdvanceAgent("Red", tr, false))
}

func TestEvaluateReactiveFirstRuleWins(t *testing.T) {
	m := newResetManager(t)

	fired := m.EvaluateReactive(map[int]string{0: "q1"})
	require.Contains(t, fired, "Blue")
	assert.Equal(t, "alarm", fired["Blue"].Name)

	state, err := m.AgentState("Blue")
	require.NoError(t, err)
	assert.Equal(t, "respond", state)

	// With Blue responding, only stand_down can fire, and only when every
	// changed host returned to q0.
	fired = m.EvaluateReactive(map[int]string{0: "q0"})
	require.Contains(t, fired, "Blue")
	assert.Equal(t, "stand_down", fired["Blue"].Name)
}

func TestEvaluateReactiveFromStateRestriction(t *testing.T) {
	m := newResetManager(t)
	require.NoError(t, m.SetAgentState("Blue", "respond"))

	// alarm requires watch, stand_down requires all-q0; neither fires.
	fired := m.EvaluateReactive(map[int]string{0: "q2"})
	assert.Empty(t, fired)
}

func TestEvaluateReactiveEmptyChangeSet(t *testing.T) {
	m := newResetManager(t)

	fired := m.EvaluateReactive(map[int]string{})
	assert.Empty(t, fired)
	state, err := m.AgentState("Blue")
	require.NoError(t, err)
	assert.Equal(t, "watch", state)
}
