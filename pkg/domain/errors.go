package domain

import (
	"errors"
	"fmt"
)

// ErrEpisodeFinished is returned by Step once the horizon has been
// reached. The engine's state is left untouched.
var ErrEpisodeFinished = errors.New("episode finished")

// ErrEpisodeNotStarted is returned by Step before the first Reset.
var ErrEpisodeNotStarted = errors.New("episode not started")

// ErrEpisodeNotFound is returned by episode stores when no snapshot
// exists for the requested ID.
var ErrEpisodeNotFound = errors.New("episode not found")

// NoApplicableTransitionError reports that an agent's transition table has
// no descriptor for its current state. This is an unusable configuration,
// not a retryable runtime condition.
type NoApplicableTransitionError struct {
	Agent string
	State string
}

func (e *NoApplicableTransitionError) Error() string {
	return fmt.Sprintf("agent %q: no transition declared for state %q", e.Agent, e.State)
}

// UnknownActionError reports a transition or caller referencing an action
// name absent from the agent's action table.
type UnknownActionError struct {
	Agent  string
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("agent %q: action %q is not defined", e.Agent, e.Action)
}

// InvalidActionBindingError reports a hostless/target mismatch: a hostless
// action bound to a host, or a hostful action bound to none.
type InvalidActionBindingError struct {
	Agent    string
	Action   string
	Hostless bool
}

func (e *InvalidActionBindingError) Error() string {
	if e.Hostless {
		return fmt.Sprintf("agent %q: hostless action %q must not name a target host", e.Agent, e.Action)
	}
	return fmt.Sprintf("agent %q: action %q requires a target host", e.Agent, e.Action)
}

// InvalidHostIndexError reports a target host outside [0, NumHosts).
type InvalidHostIndexError struct {
	Index    int
	NumHosts int
}

func (e *InvalidHostIndexError) Error() string {
	return fmt.Sprintf("host index %d out of range [0,%d)", e.Index, e.NumHosts)
}

// UnknownAgentError reports a caller naming an agent the scenario does not
// declare.
type UnknownAgentError struct {
	Agent string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("agent %q is not declared in the scenario", e.Agent)
}
