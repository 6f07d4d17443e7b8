package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/hexlattice/skirmish/pkg/domain"
)

// NewMarkdownRenderer returns a function that renders markdown using
// glamour, auto-detecting the terminal background.
func NewMarkdownRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// threatPalette maps a host state's position in the alphabet (secure first)
// to a color ramp from green to red.
var threatPalette = []string{"#4ade80", "#facc15", "#fb923c", "#f87171", "#dc2626"}

// RenderHosts formats the host-state vector as one colored line, hotter
// colors for states deeper in the alphabet.
func RenderHosts(sc *domain.Scenario, hostStates []string) string {
	p := termenv.ColorProfile()
	rank := make(map[string]int, len(sc.HostStates))
	for i, state := range sc.HostStates {
		rank[state] = i
	}

	parts := make([]string, len(hostStates))
	for i, state := range hostStates {
		color := threatPalette[min(rank[state], len(threatPalette)-1)]
		name := state
		if i < len(sc.Hosts) {
			name = fmt.Sprintf("%s=%s", sc.Hosts[i].Name, state)
		}
		parts[i] = termenv.String(name).Foreground(p.Color(color)).String()
	}
	return strings.Join(parts, "  ")
}

// RenderStep formats one step summary for interactive play: agent actions
// with success marks, the colored host line, and any reactive firings.
func RenderStep(sc *domain.Scenario, sum *domain.StepSummary) string {
	p := termenv.ColorProfile()
	var sb strings.Builder

	header := termenv.String(fmt.Sprintf("── step %d ──", sum.Step)).Bold()
	sb.WriteString(header.String())
	sb.WriteString("\n")

	for _, o := range sum.Outcomes {
		mark := termenv.String("✓").Foreground(p.Color("#4ade80"))
		if !o.Success {
			mark = termenv.String("✗").Foreground(p.Color("#f87171"))
		}
		target := ""
		if o.TargetHost != nil && *o.TargetHost < len(sc.Hosts) {
			target = " → " + sc.Hosts[*o.TargetHost].Name
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s%s  (reward %+.1f)\n",
			mark, o.Agent, o.Action, target, o.Reward))
	}

	for agent, state := range sum.ReactiveFired {
		line := termenv.String(fmt.Sprintf("  ⚡ %s interrupted → %s", agent, state)).
			Foreground(p.Color("#facc15"))
		sb.WriteString(line.String())
		sb.WriteString("\n")
	}

	sb.WriteString("  ")
	sb.WriteString(RenderHosts(sc, sum.HostStates))
	sb.WriteString("\n")
	return sb.String()
}
