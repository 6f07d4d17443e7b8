/*
Package skirmish is a deterministic, configuration-driven adversarial
simulator. Red and Blue agents act over a shared set of hosts; both the
agents and the hosts are finite-state machines, declared entirely in a
YAML scenario.

# Concept

A scenario declares a host-state alphabet (for example q0 secure through
q3 exfiltrated), a small network of hosts, and one DFA per agent. Each
agent's transition table binds its states to actions; each action carries
a precondition over the targeted host's state and an effect on it. An
action succeeds exactly when its precondition matches, so every run is
fully reproducible: same scenario, same policies, same trace.

A step has two phases. First every agent acts in the declared turn order
and its DFA advances along on_success or on_failure. Then reactive rules
are re-evaluated against the complete set of host changes the step
produced; the first matching rule per agent overrides whatever state the
ordinary advancement chose. This is what lets a defender notice a
compromise the moment it lands.

# Key Features

  - Deterministic Execution: success is decided by preconditions, never
    by chance; random policies are explicitly seeded.
  - Hexagonal Architecture: the step engine is decoupled from adapters
    (HTTP, MCP, Redis persistence, terminal rendering).
  - Policy Injection: any agent's declared DFA can be replaced with a
    heuristic or scripted policy via the ports.Policy interface.
  - Episode Persistence: snapshots can be saved and resumed through an
    EpisodeStore.

# Usage

Load a scenario and run an episode:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/hexlattice/skirmish"
	)

	func main() {
		sim, err := skirmish.Load("examples/scenarios/baby-net.yaml")
		if err != nil {
			log.Fatal(err)
		}

		trace, err := sim.Run(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		for _, step := range trace {
			fmt.Println(step.Step, step.HostStates)
		}
		fmt.Println(sim.Rewards().Totals)
	}

To drive an episode interactively, call Reset once and Step repeatedly;
each step returns a summary of actions, rewards and reactive firings.
*/
package skirmish
