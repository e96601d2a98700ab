package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".clipgen"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Speech providers.
const (
	SpeechGemini = "gemini"
	SpeechOpenAI = "openai"
)

// History backends.
const (
	HistoryMemory = "memory"
	HistoryBadger = "badger"
	HistorySQLite = "sqlite"
)

// Config represents the main configuration structure for a CLI app
type Config struct {
	// AppName is the application name (e.g., "clipgen")
	AppName string `yaml:"-"`

	// CurrentContext is the name of the currently active context
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts is a map of context name to context configuration
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// Context represents a single API context configuration
type Context struct {
	// Name is the context name
	Name string `yaml:"name"`

	// APIKey is the Gemini API key. It also authorizes video downloads.
	// Empty means GEMINI_API_KEY or GOOGLE_API_KEY from the environment.
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL overrides the Gemini API endpoint
	BaseURL string `yaml:"base_url,omitempty"`

	VideoModel  string `yaml:"video_model,omitempty"`
	SpeechModel string `yaml:"speech_model,omitempty"`

	// SpeechProvider is gemini (default) or openai
	SpeechProvider string `yaml:"speech_provider,omitempty"`

	OpenAIAPIKey  string `yaml:"openai_api_key,omitempty"`
	OpenAIBaseURL string `yaml:"openai_base_url,omitempty"`

	// PollInterval and MaxWait are Go durations such as "5s" or "10m".
	PollInterval string `yaml:"poll_interval,omitempty"`
	MaxWait      string `yaml:"max_wait,omitempty"`

	Store   *StoreConfig   `yaml:"store,omitempty"`
	History *HistoryConfig `yaml:"history,omitempty"`

	// NATSURL enables completion events when set
	NATSURL string `yaml:"nats_url,omitempty"`

	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`
}

// StoreConfig selects where saved clips go. Bucket wins over Dir.
type StoreConfig struct {
	Dir string `yaml:"dir,omitempty"`

	Bucket          string `yaml:"bucket,omitempty"`
	Prefix          string `yaml:"prefix,omitempty"`
	Region          string `yaml:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	PathStyle       bool   `yaml:"path_style,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
}

// HistoryConfig selects the run history backend.
type HistoryConfig struct {
	// Backend is memory, badger or sqlite
	Backend string `yaml:"backend,omitempty"`
	// Path is the badger directory or sqlite file
	Path string `yaml:"path,omitempty"`
}

// LoadConfig loads or creates configuration for the specified app
func LoadConfig(appName string) (*Config, error) {
	return LoadConfigWithPath(appName, "")
}

// LoadConfigWithPath loads configuration from a custom path
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	var configPath string

	if customPath != "" {
		configPath = customPath
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, DefaultBaseDir, appName, DefaultConfigFile)
	}

	// Ensure config directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		AppName:    appName,
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create empty config file
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Ensure contexts map is initialized
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}

	cfg.AppName = appName
	cfg.configPath = configPath

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// AddContext adds or replaces a context
func (c *Config) AddContext(name string, ctx *Context) error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	ctx.Name = name
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// GetCurrentContext returns the current context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the context by name, or current context if name is empty
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		return c.GetCurrentContext()
	}
	return c.GetContext(name)
}

// ListContexts returns all context names, sorted
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PollIntervalDuration parses PollInterval. Zero means unset.
func (ctx *Context) PollIntervalDuration() (time.Duration, error) {
	return parseDuration("poll_interval", ctx.PollInterval)
}

// MaxWaitDuration parses MaxWait. Zero means unset.
func (ctx *Context) MaxWaitDuration() (time.Duration, error) {
	return parseDuration("max_wait", ctx.MaxWait)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: negative", field, s)
	}
	return d, nil
}

// Validate checks the enumerated fields and durations.
func (ctx *Context) Validate() error {
	switch ctx.SpeechProvider {
	case "", SpeechGemini, SpeechOpenAI:
	default:
		return fmt.Errorf("unknown speech_provider %q", ctx.SpeechProvider)
	}
	if ctx.History != nil {
		switch ctx.History.Backend {
		case "", HistoryMemory:
		case HistoryBadger, HistorySQLite:
			if ctx.History.Path == "" {
				return fmt.Errorf("history backend %s needs a path", ctx.History.Backend)
			}
		default:
			return fmt.Errorf("unknown history backend %q", ctx.History.Backend)
		}
	}
	if _, err := ctx.PollIntervalDuration(); err != nil {
		return err
	}
	_, err := ctx.MaxWaitDuration()
	return err
}

// MaskAPIKey masks the API key for display
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
