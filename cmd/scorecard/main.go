package main

import (
	"os"

	"github.com/riteshk28/Lighthouse/cmd/scorecard/commands"
)

// main is the entry point for the scorecard CLI
// ⭐ single CLI entry point: go run ./cmd/scorecard [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
