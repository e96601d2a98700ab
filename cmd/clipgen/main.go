// Package main provides the clipgen CLI tool.
//
// Usage:
//
//	clipgen [flags] <command> [args]
//
// Commands:
//
//	generate - Generate a video clip with optional narration
//	history  - Inspect past runs
//	serve    - Run the HTTP API
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.clipgen/clipgen/
//	Use 'clipgen config' commands to manage contexts.
package main

import (
	"os"

	"github.com/haivivi/clipgen/cmd/clipgen/commands"
	"github.com/haivivi/clipgen/pkg/cli"
)

func main() {
	if err := commands.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
