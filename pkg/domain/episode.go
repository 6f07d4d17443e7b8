package domain

// EpisodeStatus is the lifecycle of one bounded run.
type EpisodeStatus string

const (
	StatusNotStarted EpisodeStatus = "not_started"
	StatusRunning    EpisodeStatus = "running"
	StatusDone       EpisodeStatus = "done"
)

// ActionOutcome records one agent's act within a step.
type ActionOutcome struct {
	Agent      string  `json:"agent"`
	Action     string  `json:"action"`
	TargetHost *int    `json:"target_host,omitempty"`
	Success    bool    `json:"success"`
	Reward     float64 `json:"reward"`

	// HostState is the targeted host's state after the action (the
	// placeholder host for hostless actions).
	HostState string `json:"host_state,omitempty"`
}

// StepSummary is the result of one discrete simulation step.
type StepSummary struct {
	Step     int             `json:"step"`
	Outcomes []ActionOutcome `json:"outcomes"`

	// HostStates and AgentStates are the post-step state vectors.
	HostStates  []string          `json:"host_states"`
	AgentStates map[string]string `json:"agent_states"`

	// ReactiveFired maps agent name -> reactive target state for each
	// agent whose DFA outcome was overridden this step.
	ReactiveFired map[string]string `json:"reactive_fired,omitempty"`

	Done bool `json:"done"`
}

// RewardSummary aggregates the per-agent reward totals of an episode.
type RewardSummary struct {
	Totals map[string]float64 `json:"totals"`
	Total  float64            `json:"total"`
}

// EpisodeSnapshot is the serializable state of an episode, sufficient to
// persist and later resume it.
type EpisodeSnapshot struct {
	ID       string `json:"id"`
	Scenario string `json:"scenario"`

	Status EpisodeStatus `json:"status"`
	Step   int           `json:"step"`

	HostStates  []string           `json:"host_states"`
	AgentStates map[string]string  `json:"agent_states"`
	Rewards     map[string]float64 `json:"rewards"`

	Trace []StepSummary `json:"trace,omitempty"`
}
