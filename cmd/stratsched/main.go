package main

import (
	"os"

	"github.com/wonny/strategy-scheduler/cmd/stratsched/commands"
)

// main is the entry point for the strategy scheduler CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/stratsched [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
