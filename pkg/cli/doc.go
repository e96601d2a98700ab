// Package cli provides the command-line plumbing shared by clipgen binaries.
//
// This package includes:
//   - Configuration management (contexts, like kubectl)
//   - Output formatting (YAML, JSON, raw) with optional jq filtering
//   - Request file loading (YAML/JSON)
//   - Terminal styles
//
// Configuration is stored in ~/.clipgen/<app>/config.yaml.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("clipgen")
//	ctx, err := cfg.ResolveContext("")
//
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    Query:  ".video",
//	})
package cli
