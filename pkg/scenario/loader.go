// Package scenario loads and validates YAML scenario documents into
// domain.Scenario values. Agent, transition and reactive-rule maps are
// decoded through yaml.Node so that their declaration order survives
// into the runtime, where it drives turn order and rule precedence.
package scenario

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/hexlattice/skirmish/pkg/domain"
)

// Load reads a scenario file from disk and parses it.
func Load(path string) (*domain.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scenario document and validates it. The returned
// scenario is ready to hand to the engine.
func Parse(data []byte) (*domain.Scenario, error) {
	var doc scenarioDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	sc, err := doc.build()
	if err != nil {
		return nil, err
	}
	if err := Validate(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// scenarioDoc mirrors the on-disk layout. Agents stays a raw node: a Go map
// would shuffle the declaration order the engine depends on.
type scenarioDoc struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	HostStates  []string           `yaml:"host_states"`
	Topology    topologyDoc        `yaml:"topology"`
	Hosts       map[string]hostDoc `yaml:"hosts"`
	TurnOrder   []string           `yaml:"turn_order"`
	Horizon     int                `yaml:"horizon"`
	Agents      yaml.Node          `yaml:"agents"`
}

type topologyDoc struct {
	Type     string   `yaml:"type"`
	NumHosts int      `yaml:"num_hosts"`
	Hosts    []string `yaml:"hosts"`
}

type hostDoc struct {
	InitialState string `yaml:"initial_state"`
}

type agentDoc struct {
	InitialState string    `yaml:"initial_state"`
	States       []string  `yaml:"states"`
	Actions      yaml.Node `yaml:"actions"`
	Transitions  yaml.Node `yaml:"transitions"`
	Reactive     yaml.Node `yaml:"reactive_transitions"`
}

type actionDoc struct {
	FromState       string    `yaml:"from_state"`
	ToState         yaml.Node `yaml:"to_state"`
	Reward          float64   `yaml:"reward"`
	RewardOnFailure float64   `yaml:"reward_on_failure"`
	Hostless        bool      `yaml:"hostless"`
}

type transitionDoc struct {
	Action     string `yaml:"action"`
	TargetHost *int   `yaml:"target_host"`
	FromState  string `yaml:"from_state"`
	OnSuccess  string `yaml:"on_success"`
	OnFailure  string `yaml:"on_failure"`
}

type reactiveDoc struct {
	Trigger   string         `yaml:"trigger"`
	FromState string         `yaml:"from_state"`
	Condition map[string]any `yaml:"condition"`
	ToState   string         `yaml:"to_state"`
}

type conditionDoc struct {
	Type   string   `mapstructure:"type"`
	States []string `mapstructure:"states"`
	Host   int      `mapstructure:"host"`
	State  string   `mapstructure:"state"`
}

func (d *scenarioDoc) build() (*domain.Scenario, error) {
	sc := &domain.Scenario{
		Name:        d.Name,
		Description: d.Description,
		HostStates:  d.HostStates,
		Topology: domain.Topology{
			Type:     d.Topology.Type,
			NumHosts: d.Topology.NumHosts,
			Hosts:    d.Topology.Hosts,
		},
		TurnOrder: d.TurnOrder,
		Horizon:   d.Horizon,
	}

	// Host list follows the topology's declared order. Hosts missing an
	// initial_state entry default to the first symbol of the alphabet.
	for _, name := range d.Topology.Hosts {
		spec := domain.HostSpec{Name: name}
		if h, ok := d.Hosts[name]; ok {
			spec.InitialState = h.InitialState
		}
		if spec.InitialState == "" && len(d.HostStates) > 0 {
			spec.InitialState = d.HostStates[0]
		}
		sc.Hosts = append(sc.Hosts, spec)
	}

	err := eachMappingEntry(&d.Agents, func(name string, node *yaml.Node) error {
		var ad agentDoc
		if err := node.Decode(&ad); err != nil {
			return fmt.Errorf("agent %q: %w", name, err)
		}
		agent, err := ad.build(name)
		if err != nil {
			return err
		}
		sc.Agents = append(sc.Agents, *agent)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func (d *agentDoc) build(name string) (*domain.AgentSpec, error) {
	agent := &domain.AgentSpec{
		Name:         name,
		InitialState: d.InitialState,
		States:       d.States,
		Actions:      map[string]domain.ActionDef{},
	}

	err := eachMappingEntry(&d.Actions, func(action string, node *yaml.Node) error {
		var ad actionDoc
		if err := node.Decode(&ad); err != nil {
			return fmt.Errorf("agent %q action %q: %w", name, action, err)
		}
		effect, err := decodeEffect(&ad.ToState)
		if err != nil {
			return fmt.Errorf("agent %q action %q: %w", name, action, err)
		}
		agent.Actions[action] = domain.ActionDef{
			Name:            action,
			FromState:       ad.FromState,
			Effect:          effect,
			Reward:          ad.Reward,
			RewardOnFailure: ad.RewardOnFailure,
			Hostless:        ad.Hostless,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachMappingEntry(&d.Transitions, func(tname string, node *yaml.Node) error {
		var td transitionDoc
		if err := node.Decode(&td); err != nil {
			return fmt.Errorf("agent %q transition %q: %w", name, tname, err)
		}
		agent.Transitions = append(agent.Transitions, domain.Transition{
			Name:       tname,
			Action:     td.Action,
			TargetHost: td.TargetHost,
			FromState:  td.FromState,
			OnSuccess:  td.OnSuccess,
			OnFailure:  td.OnFailure,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachMappingEntry(&d.Reactive, func(rname string, node *yaml.Node) error {
		var rd reactiveDoc
		if err := node.Decode(&rd); err != nil {
			return fmt.Errorf("agent %q reactive rule %q: %w", name, rname, err)
		}
		var cond conditionDoc
		if err := mapstructure.Decode(rd.Condition, &cond); err != nil {
			return fmt.Errorf("agent %q reactive rule %q condition: %w", name, rname, err)
		}
		agent.Reactive = append(agent.Reactive, domain.ReactiveRule{
			Name:      rname,
			Trigger:   rd.Trigger,
			FromState: rd.FromState,
			Condition: domain.Condition{
				Type:   domain.ConditionType(cond.Type),
				States: cond.States,
				Host:   cond.Host,
				State:  cond.State,
			},
			ToState: rd.ToState,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// decodeEffect maps the to_state field onto the effect variant: the scalar
// "same" keeps the host where it is, any other scalar is a fixed target, and
// a mapping is a conditional effect keyed by current host state with a
// required "default" branch.
func decodeEffect(node *yaml.Node) (domain.Effect, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var target string
		if err := node.Decode(&target); err != nil {
			return domain.Effect{}, fmt.Errorf("decoding to_state: %w", err)
		}
		if target == "same" {
			return domain.SameEffect(), nil
		}
		return domain.FixedEffect(target), nil
	case yaml.MappingNode:
		cases := map[string]string{}
		if err := node.Decode(&cases); err != nil {
			return domain.Effect{}, fmt.Errorf("decoding conditional to_state: %w", err)
		}
		def, ok := cases["default"]
		if !ok {
			return domain.Effect{}, fmt.Errorf("conditional to_state missing default branch")
		}
		delete(cases, "default")
		return domain.ConditionalEffect(cases, def), nil
	case 0:
		return domain.Effect{}, fmt.Errorf("to_state is required")
	default:
		return domain.Effect{}, fmt.Errorf("to_state must be a scalar or a mapping")
	}
}

// eachMappingEntry walks a mapping node in document order. A zero or null
// node is treated as an empty mapping.
func eachMappingEntry(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping at line %d", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("decoding mapping key at line %d: %w", node.Content[i].Line, err)
		}
		if err := fn(key, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
