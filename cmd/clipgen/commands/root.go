package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/clipgen/pkg/cli"
)

const appName = "clipgen"

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	inputFile   string
	outputJSON  bool
	query       string
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clipgen",
	Short: "Generate short video clips with spoken narration",
	Long: `clipgen - generate a short video clip and an optional narration track
from a text prompt.

The video is rendered by a long-running Veo operation which clipgen polls
until it finishes. Narration is synthesized in parallel by Gemini TTS (or
OpenAI TTS) and returned as a WAV track. A narration failure never fails the
clip; a video failure always does.

Configuration is stored in ~/.clipgen/clipgen/ and supports multiple contexts,
similar to kubectl's context management. Without a context the Gemini key is
read from GEMINI_API_KEY or GOOGLE_API_KEY.

Examples:
  # Set up a context
  clipgen config add-context dev --api-key YOUR_API_KEY --store-dir ./clips

  # Generate a clip and save its assets
  clipgen generate --prompt "a paper boat in the rain" --narration "It floats." --save

  # Extract just the video data URI
  clipgen generate -f request.yaml --json --query .video
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.clipgen/clipgen/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "input request file (YAML or JSON, - for stdin)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().StringVarP(&query, "query", "q", "", "jq filter applied to the output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context configuration to use. With no context
// named and none current, an empty context backed by the environment is
// returned.
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	if contextName == "" && cfg.CurrentContext == "" {
		return &cli.Context{Name: "(environment)"}, nil
	}
	return cfg.ResolveContext(contextName)
}

// outputResult outputs the result using cli package
func outputResult(result any) error {
	format := cli.FormatYAML
	if outputJSON {
		format = cli.FormatJSON
	}
	if query != "" && !outputJSON {
		// Filtered scalars read best unquoted.
		format = cli.FormatRaw
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		Query:  query,
		File:   outputFile,
	})
}

// printVerbose prints verbose output if enabled
func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
