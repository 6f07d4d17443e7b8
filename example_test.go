package skirmish_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hexlattice/skirmish"
)

// Example runs the bundled minimal scenario to its horizon and prints the
// target host's state after each step.
func Example() {
	sim, err := skirmish.Load("examples/scenarios/minimal.yaml")
	if err != nil {
		log.Fatal(err)
	}

	trace, err := sim.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	for _, step := range trace {
		fmt.Println(step.Step, step.HostStates[0])
	}
	fmt.Println("total reward:", sim.Rewards().Total)
	// Output:
	// 1 q1
	// 2 q2
	// 3 q2
	// 4 q2
	// 5 q2
	// total reward: 3
}
