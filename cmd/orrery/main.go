// Command orrery is a terminal solar system: a half-block rendered orrery
// with click-to-focus bodies and orbit camera controls.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
