package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/clipgen/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts allow you to manage multiple API configurations,
similar to kubectl's context management.

Configuration is stored in ~/.clipgen/clipgen/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add or replace a context",
	Long: `Add a context with the specified name.

Examples:
  clipgen config add-context dev --api-key KEY --store-dir ./clips
  clipgen config add-context prod --api-key KEY --speech-provider openai --openai-api-key OKEY \
      --s3-bucket clips --s3-region us-east-1 --history sqlite --nats-url nats://localhost:4222`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		str := func(name string) string {
			v, _ := f.GetString(name)
			return v
		}

		ctx := &cli.Context{
			APIKey:         str("api-key"),
			BaseURL:        str("base-url"),
			VideoModel:     str("video-model"),
			SpeechModel:    str("speech-model"),
			SpeechProvider: str("speech-provider"),
			OpenAIAPIKey:   str("openai-api-key"),
			OpenAIBaseURL:  str("openai-base-url"),
			PollInterval:   str("poll-interval"),
			MaxWait:        str("max-wait"),
			NATSURL:        str("nats-url"),
			LogLevel:       str("log-level"),
			LogFormat:      str("log-format"),
		}

		if bucket := str("s3-bucket"); bucket != "" {
			pathStyle, _ := f.GetBool("s3-path-style")
			ctx.Store = &cli.StoreConfig{
				Bucket:          bucket,
				Prefix:          str("s3-prefix"),
				Region:          str("s3-region"),
				Endpoint:        str("s3-endpoint"),
				PathStyle:       pathStyle,
				AccessKeyID:     str("s3-access-key-id"),
				SecretAccessKey: str("s3-secret-access-key"),
			}
		} else if dir := str("store-dir"); dir != "" {
			ctx.Store = &cli.StoreConfig{Dir: dir}
		}

		if backend := str("history"); backend != "" {
			ctx.History = &cli.HistoryConfig{Backend: backend, Path: str("history-path")}
			if ctx.History.Path == "" {
				paths, err := cli.NewPaths(appName)
				if err != nil {
					return err
				}
				ctx.History.Path = paths.HistoryPath(backend)
			}
		}

		cfg := getConfig()
		if err := cfg.AddContext(args[0], ctx); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q added", args[0])
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"delete-context"},
	Short:   "Delete a context",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"list-contexts", "get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tVIDEO_MODEL\tSPEECH\tSTORE")
		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", current, name,
				orDefault(ctx.VideoModel), orDefault(ctx.SpeechProvider), storeLabel(ctx.Store))
		}
		return w.Flush()
	},
}

var configShowCmd = &cobra.Command{
	Use:     "show [name]",
	Aliases: []string{"view"},
	Short:   "Show a context with secrets masked",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		name := contextName
		if len(args) == 1 {
			name = args[0]
		}
		ctx, err := cfg.ResolveContext(name)
		if err != nil {
			return err
		}

		shown := *ctx
		shown.APIKey = cli.MaskAPIKey(shown.APIKey)
		shown.OpenAIAPIKey = cli.MaskAPIKey(shown.OpenAIAPIKey)
		if shown.Store != nil {
			store := *shown.Store
			store.SecretAccessKey = cli.MaskAPIKey(store.SecretAccessKey)
			shown.Store = &store
		}
		printVerbose("Config file: %s", cfg.Path())
		return outputResult(&shown)
	},
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

func storeLabel(s *cli.StoreConfig) string {
	switch {
	case s == nil:
		return "(default)"
	case s.Bucket != "":
		return "s3://" + s.Bucket + "/" + s.Prefix
	default:
		return s.Dir
	}
}

func init() {
	f := configAddContextCmd.Flags()
	f.String("api-key", "", "Gemini API key (default: GEMINI_API_KEY / GOOGLE_API_KEY)")
	f.String("base-url", "", "Gemini API base URL")
	f.String("video-model", "", "video model")
	f.String("speech-model", "", "speech model")
	f.String("speech-provider", "", "speech provider: gemini or openai")
	f.String("openai-api-key", "", "OpenAI API key for the openai speech provider")
	f.String("openai-base-url", "", "OpenAI API base URL")
	f.String("poll-interval", "", "video status poll interval, e.g. 5s")
	f.String("max-wait", "", "maximum wait for a video, e.g. 10m (0 disables)")
	f.String("store-dir", "", "directory for saved clips")
	f.String("s3-bucket", "", "S3 bucket for saved clips")
	f.String("s3-prefix", "", "S3 key prefix")
	f.String("s3-region", "", "S3 region")
	f.String("s3-endpoint", "", "S3-compatible endpoint URL")
	f.Bool("s3-path-style", false, "use path-style S3 addressing")
	f.String("s3-access-key-id", "", "S3 access key id")
	f.String("s3-secret-access-key", "", "S3 secret access key")
	f.String("history", "", "history backend: memory, badger or sqlite")
	f.String("history-path", "", "history database path")
	f.String("nats-url", "", "NATS URL for completion events")
	f.String("log-level", "", "log level: debug, info, warn, error")
	f.String("log-format", "", "log format: text or json")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configShowCmd)
}
