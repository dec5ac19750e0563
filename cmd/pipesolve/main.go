// Command pipesolve loads a pipe-routing instance, runs one of the
// routing algorithms, reports the plan quality, and writes the routed
// paths as JSON for the visualizer.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
