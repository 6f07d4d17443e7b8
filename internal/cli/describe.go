package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hexlattice/skirmish/pkg/domain"
)

// DescribeMarkdown renders a scenario as a human-readable markdown
// document: topology, host alphabet, and each agent's actions, DFA table
// and reactive rules.
func DescribeMarkdown(sc *domain.Scenario) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", sc.Name)
	if sc.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", sc.Description)
	}

	fmt.Fprintf(&sb, "## Network\n\n")
	fmt.Fprintf(&sb, "- topology: `%s`, %d hosts\n", sc.Topology.Type, sc.Topology.NumHosts)
	fmt.Fprintf(&sb, "- host states: `%s`\n\n", strings.Join(sc.HostStates, "` → `"))

	fmt.Fprintf(&sb, "| # | Host | Initial state |\n|---|------|---------------|\n")
	for i, host := range sc.Hosts {
		fmt.Fprintf(&sb, "| %d | %s | `%s` |\n", i, host.Name, host.InitialState)
	}
	sb.WriteString("\n")

	for i := range sc.Agents {
		agent := &sc.Agents[i]
		fmt.Fprintf(&sb, "## Agent %s\n\n", agent.Name)
		fmt.Fprintf(&sb, "states: `%s` (initial `%s`)\n\n",
			strings.Join(agent.States, "`, `"), agent.InitialState)

		if len(agent.Actions) > 0 {
			names := make([]string, 0, len(agent.Actions))
			for name := range agent.Actions {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Fprintf(&sb, "### Actions\n\n")
			fmt.Fprintf(&sb, "| Action | Precondition | Effect | Reward |\n|--------|--------------|--------|--------|\n")
			for _, name := range names {
				def := agent.Actions[name]
				fmt.Fprintf(&sb, "| %s | `%s` | %s | %+.1f |\n",
					def.Name, def.FromState, describeEffect(def.Effect), def.Reward)
			}
			sb.WriteString("\n")
		}

		if len(agent.Transitions) > 0 {
			fmt.Fprintf(&sb, "### Transitions\n\n")
			fmt.Fprintf(&sb, "| Name | From | Action | Target | Success | Failure |\n|------|------|--------|--------|---------|--------|\n")
			for _, tr := range agent.Transitions {
				target := "—"
				if tr.TargetHost != nil {
					target = fmt.Sprintf("host %d", *tr.TargetHost)
				}
				fmt.Fprintf(&sb, "| %s | `%s` | %s | %s | `%s` | `%s` |\n",
					tr.Name, tr.FromState, tr.Action, target, tr.OnSuccess, tr.OnFailure)
			}
			sb.WriteString("\n")
		}

		if len(agent.Reactive) > 0 {
			fmt.Fprintf(&sb, "### Reactive rules\n\n")
			for _, rule := range agent.Reactive {
				fmt.Fprintf(&sb, "- **%s**: when `%s` and %s, jump `%s` → `%s`\n",
					rule.Name, rule.Trigger, describeCondition(rule.Condition), rule.FromState, rule.ToState)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func describeEffect(e domain.Effect) string {
	switch e.Kind {
	case domain.EffectFixed:
		return fmt.Sprintf("→ `%s`", e.Target)
	case domain.EffectSame:
		return "unchanged"
	case domain.EffectConditional:
		froms := make([]string, 0, len(e.Cases))
		for from := range e.Cases {
			froms = append(froms, from)
		}
		sort.Strings(froms)

		parts := make([]string, 0, len(froms)+1)
		for _, from := range froms {
			parts = append(parts, fmt.Sprintf("`%s`→`%s`", from, e.Cases[from]))
		}
		parts = append(parts, fmt.Sprintf("else→`%s`", e.Default))
		return strings.Join(parts, ", ")
	default:
		return "?"
	}
}

func describeCondition(c domain.Condition) string {
	switch c.Type {
	case domain.CondAnyHostInStates:
		return fmt.Sprintf("any host in `%s`", strings.Join(c.States, "`, `"))
	case domain.CondAllHostsInStates:
		return fmt.Sprintf("all changed hosts in `%s`", strings.Join(c.States, "`, `"))
	case domain.CondSpecificHost:
		return fmt.Sprintf("host %d in `%s`", c.Host, c.State)
	default:
		return string(c.Type)
	}
}
