package domain

import (
	"context"
	"time"
)

// EventType categorizes lifecycle events.
type EventType string

const (
	EventStepStart      EventType = "step_start"
	EventActionExecuted EventType = "action_executed"
	EventReactiveFired  EventType = "reactive_fired"
	EventEpisodeDone    EventType = "episode_done"
)

// EventBase carries fields common to all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	EpisodeID string    `json:"episode_id"`
	Step      int       `json:"step"`
}

// StepEvent marks the start of a step.
type StepEvent struct {
	EventBase
}

// ActionEvent records one executed action.
type ActionEvent struct {
	EventBase
	Outcome ActionOutcome `json:"outcome"`
}

// ReactiveEvent records a reactive rule overriding an agent's DFA outcome.
type ReactiveEvent struct {
	EventBase
	Agent   string `json:"agent"`
	Rule    string `json:"rule"`
	ToState string `json:"to_state"`
}

// EpisodeEvent marks the end of an episode (horizon reached).
type EpisodeEvent struct {
	EventBase
	Rewards RewardSummary `json:"rewards"`
}

// LifecycleHooks are optional observability callbacks. The engine invokes
// them synchronously; hooks must not call back into the engine.
type LifecycleHooks struct {
	OnStepStart      func(context.Context, *StepEvent)
	OnActionExecuted func(context.Context, *ActionEvent)
	OnReactiveFired  func(context.Context, *ReactiveEvent)
	OnEpisodeDone    func(context.Context, *EpisodeEvent)
}
