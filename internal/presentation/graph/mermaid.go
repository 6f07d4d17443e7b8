package graph

import (
	"fmt"
	"strings"

	"github.com/hexlattice/skirmish/pkg/domain"
)

// Overlay contains dynamic episode data to visualize on an agent's DFA.
type Overlay struct {
	CurrentState string
}

// GenerateMermaid produces a Mermaid flowchart for one agent's DFA.
// States are nodes; each transition is an edge labeled with its action and
// host binding; reactive rules are drawn as dotted interrupt edges. The
// initial state gets the circle shape.
func GenerateMermaid(agent *domain.AgentSpec, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, state := range agent.States {
		safeID := sanitizeMermaidID(state)
		opener, closer := "[", "]"
		if state == agent.InitialState {
			opener, closer = "((", "))" // Circle
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, state, closer))
	}

	for _, tr := range agent.Transitions {
		from := tr.FromState
		if from == domain.WildcardAny {
			from = "any"
		}
		safeFrom := sanitizeMermaidID(from)
		label := tr.Action
		if tr.TargetHost != nil {
			label = fmt.Sprintf("%s @%d", tr.Action, *tr.TargetHost)
		}

		sb.WriteString(fmt.Sprintf("    %s -- \"%s ✓\" --> %s\n",
			safeFrom, label, sanitizeMermaidID(tr.OnSuccess)))
		if tr.OnFailure != tr.OnSuccess {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s ✗\" --> %s\n",
				safeFrom, label, sanitizeMermaidID(tr.OnFailure)))
		}
	}

	// Reactive rules interrupt the ordinary flow; draw them dotted.
	for _, rule := range agent.Reactive {
		from := rule.FromState
		if from == domain.WildcardAny {
			from = "any"
		}
		sb.WriteString(fmt.Sprintf("    %s -. \"⚡ %s\" .-> %s\n",
			sanitizeMermaidID(from), rule.Name, sanitizeMermaidID(rule.ToState)))
	}

	if overlay != nil && overlay.CurrentState != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentState)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
