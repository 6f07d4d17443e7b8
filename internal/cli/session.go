// Package cli implements the command-line session flows shared by the
// skirmish commands: interactive episode play, headless runs and NDJSON
// output for scripting.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/hexlattice/skirmish"
	"github.com/hexlattice/skirmish/internal/logging"
	"github.com/hexlattice/skirmish/internal/presentation/tui"
	"github.com/hexlattice/skirmish/pkg/policy"
	"github.com/hexlattice/skirmish/pkg/scenario"
)

// SessionOptions configures one CLI episode run.
type SessionOptions struct {
	// Headless suppresses prompts and banner: the episode plays through
	// without waiting for input.
	Headless bool

	// JSON emits one NDJSON step summary per line instead of the TUI.
	JSON bool

	// Horizon overrides the scenario's episode length when positive.
	Horizon int

	// RandomAgents lists agents whose declared DFA is replaced with a
	// seeded random policy.
	RandomAgents []string

	// Seed feeds the random policies.
	Seed int64

	// Verbose raises the log level to debug.
	Verbose bool
}

// RunSession loads a scenario and plays one full episode according to the
// options. Interactive mode requires a terminal on stdin; otherwise the
// session degrades to headless.
func RunSession(scenarioPath string, opts SessionOptions) error {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}

	simOpts := []skirmish.Option{skirmish.WithLogger(logger)}
	if opts.Horizon > 0 {
		simOpts = append(simOpts, skirmish.WithHorizon(opts.Horizon))
	}
	for _, name := range opts.RandomAgents {
		spec := sc.Agent(name)
		if spec == nil {
			return fmt.Errorf("cannot randomize agent %q: not declared in scenario", name)
		}
		simOpts = append(simOpts, skirmish.WithPolicy(name, policy.NewRandom(spec, opts.Seed)))
	}

	sim, err := skirmish.New(sc, simOpts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := !opts.Headless && !opts.JSON && term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		tui.PrintBanner()
		fmt.Printf("scenario: %s (%d hosts, horizon %d)\n", sc.Name, sc.Topology.NumHosts, sim.Scenario().Horizon)
		fmt.Printf("initial:  %s\n\n", tui.RenderHosts(sc, sim.HostStates()))
	}

	sim.Reset()
	reader := bufio.NewReader(os.Stdin)
	encoder := json.NewEncoder(os.Stdout)

	for !sim.IsDone() {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(os.Stderr, "\ninterrupted")
				return nil
			}
			return err
		}

		if interactive {
			fmt.Print("enter to step › ")
			if _, err := reader.ReadString('\n'); err != nil {
				return err
			}
		}

		sum, err := sim.Step(ctx)
		if err != nil {
			return err
		}

		if opts.JSON {
			if err := encoder.Encode(sum); err != nil {
				return err
			}
		} else {
			fmt.Print(tui.RenderStep(sc, sum))
		}
	}

	rewards := sim.Rewards()
	if opts.JSON {
		return encoder.Encode(rewards)
	}
	fmt.Printf("\nepisode %s complete after %d steps\n", sim.EpisodeID(), sim.StepCount())
	for agent, total := range rewards.Totals {
		fmt.Printf("  %-10s %+.1f\n", agent, total)
	}
	return nil
}
