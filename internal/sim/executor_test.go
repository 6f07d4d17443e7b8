package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexlattice/skirmish/pkg/domain"
)

func newDuelExecutor(t *testing.T) (*ActionExecutor, *StateManager) {
	t.Helper()
	sc := duelScenario()
	states := NewStateManager(sc)
	states.Reset()
	return NewActionExecutor(sc, states), states
}

func TestExecuteSuccessPaysReward(t *testing.T) {
	x, states := newDuelExecutor(t)

	res, err := x.Execute("Red", "Exploit", intPtr(0))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1.0, res.Reward)
	assert.Equal(t, "q1", res.HostState)
	assert.Equal(t, []string{"q1", "q0", "q0"}, states.HostStates())
}

func TestExecuteFailurePaysFailureReward(t *testing.T) {
	x, states := newDuelExecutor(t)

	// Escalate's precondition is q1; host 0 starts at q0.
	res, err := x.Execute("Red", "Escalate", intPtr(0))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, -0.5, res.Reward)
	assert.Equal(t, "q0", res.HostState)
	assert.Equal(t, []string{"q0", "q0", "q0"}, states.HostStates())
}

func TestExecuteFailureRewardDefaultsToZero(t *testing.T) {
	x, _ := newDuelExecutor(t)
	// Force a miss: Exploit needs q0.
	_, err := x.Execute("Red", "Exploit", intPtr(0))
	require.NoError(t, err)

	res, err := x.Execute("Red", "Exploit", intPtr(0))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 0.0, res.Reward)
}

func TestExecuteHostless(t *testing.T) {
	x, states := newDuelExecutor(t)

	res, err := x.Execute("Red", "Recon", nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "q0", res.HostState)
	assert.Equal(t, []string{"q0", "q0", "q0"}, states.HostStates())
}

func TestExecuteUnknownAgent(t *testing.T) {
	x, _ := newDuelExecutor(t)

	_, err := x.Execute("Mallory", "Exploit", intPtr(0))
	var unknown *domain.UnknownAgentError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Mallory", unknown.Agent)
}

func TestExecuteUnknownAction(t *testing.T) {
	x, _ := newDuelExecutor(t)

	_, err := x.Execute("Red", "Teleport", intPtr(0))
	var unknown *domain.UnknownActionError
	require.ErrorAs(t, err, &unknown)
}

func TestExecuteBindingMismatch(t *testing.T) {
	x, states := newDuelExecutor(t)

	// Hosted action without a target.
	_, err := x.Execute("Red", "Exploit", nil)
	var binding *domain.InvalidActionBindingError
	require.ErrorAs(t, err, &binding)
	assert.False(t, binding.Hostless)

	// Hostless action with a target.
	_, err = x.Execute("Red", "Recon", intPtr(1))
	require.ErrorAs(t, err, &binding)
	assert.True(t, binding.Hostless)

	assert.Equal(t, []string{"q0", "q0", "q0"}, states.HostStates())
}

func TestExecuteTargetOutOfRange(t *testing.T) {
	x, _ := newDuelExecutor(t)

	_, err := x.Execute("Red", "Exploit", intPtr(7))
	var idx *domain.InvalidHostIndexError
	require.ErrorAs(t, err, &idx)
	assert.Equal(t, 7, idx.Index)
	assert.Equal(t, 3, idx.NumHosts)
}

func TestValidateBindingDoesNotMutate(t *testing.T) {
	x, states := newDuelExecutor(t)

	require.NoError(t, x.validateBinding("Red", "Exploit", intPtr(0)))
	assert.Equal(t, []string{"q0", "q0", "q0"}, states.HostStates())

	require.Error(t, x.validateBinding("Red", "Exploit", nil))
}
