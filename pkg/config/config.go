package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderDryRun = "dryrun"

	ThemeDark  = "dark"
	ThemeLight = "light"

	DefaultAPIURL = "https://api.openai.com/v1"
	DefaultModel  = "gpt-4"

	// Environment overrides applied on top of the config file.
	EnvAPIKey       = "OPENAI_API_KEY"
	EnvOrganization = "OPENAI_ORG_ID"
)

// Config represents the application configuration
type Config struct {
	LLMProvider   string       `json:"llm_provider"`
	OpenAI        OpenAIConfig `json:"openai"`
	Theme         string       `json:"theme"`
	TranscriptDir string       `json:"transcript_dir"`
	LogLevel      string       `json:"log_level"`
	LogFormat     string       `json:"log_format"`
	LogFile       string       `json:"log_file"`
}

// OpenAIConfig holds the chat completion endpoint configuration
type OpenAIConfig struct {
	APIKey            string  `json:"api_key"`
	Organization      string  `json:"organization"`
	APIURL            string  `json:"api_url"`
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		LLMProvider: ProviderOpenAI,
		OpenAI: OpenAIConfig{
			APIKey:            "",
			Organization:      "",
			APIURL:            DefaultAPIURL,
			Model:             DefaultModel,
			Temperature:       0,
			MaxTokens:         0,
			APITimeoutSeconds: 120,
		},
		Theme:     ThemeDark,
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load loads configuration from the specified path
// If the file doesn't exist, creates one with default values
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal over defaults so fields missing from older files keep sane values.
	// Zero values written explicitly (temperature 0) are preserved.
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	applyMigrationDefaults(&cfg)

	return cfg, nil
}

func applyMigrationDefaults(cfg *Config) {
	defaults := Default()
	if strings.TrimSpace(cfg.LLMProvider) == "" {
		cfg.LLMProvider = defaults.LLMProvider
	}
	if strings.TrimSpace(cfg.OpenAI.APIURL) == "" {
		cfg.OpenAI.APIURL = defaults.OpenAI.APIURL
	}
	if strings.TrimSpace(cfg.OpenAI.Model) == "" {
		cfg.OpenAI.Model = defaults.OpenAI.Model
	}
	if cfg.OpenAI.APITimeoutSeconds == 0 {
		cfg.OpenAI.APITimeoutSeconds = defaults.OpenAI.APITimeoutSeconds
	}
	if strings.TrimSpace(cfg.Theme) == "" {
		cfg.Theme = defaults.Theme
	}
}

// ApplyEnv overrides credentials with values from the environment when set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if key := strings.TrimSpace(getenv(EnvAPIKey)); key != "" {
		c.OpenAI.APIKey = key
	}
	if org := strings.TrimSpace(getenv(EnvOrganization)); org != "" {
		c.OpenAI.Organization = org
	}
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderDryRun:
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider)
	}

	if c.LLMProvider == ProviderOpenAI && strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return fmt.Errorf("OpenAI API key is required (set in config file, %s, or --api-key)", EnvAPIKey)
	}

	apiURL := strings.TrimSpace(c.OpenAI.APIURL)
	if apiURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if u, err := url.Parse(apiURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute URL, got: %q", c.OpenAI.APIURL)
	}

	if strings.TrimSpace(c.OpenAI.Model) == "" {
		return fmt.Errorf("model is required")
	}

	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", c.OpenAI.Temperature)
	}

	if c.OpenAI.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got: %d", c.OpenAI.MaxTokens)
	}

	if c.OpenAI.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", c.OpenAI.APITimeoutSeconds)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log_level: %s", c.LogLevel)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unsupported log_format: %s", c.LogFormat)
	}

	switch c.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("unsupported theme: %s", c.Theme)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.json")
}

// GetConfigDir returns the directory holding config, logs and transcripts.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gptchat"
	}
	return filepath.Join(homeDir, ".gptchat")
}

// TranscriptPath returns the directory transcripts are exported to.
func (c Config) TranscriptPath() string {
	if dir := strings.TrimSpace(c.TranscriptDir); dir != "" {
		return dir
	}
	return filepath.Join(GetConfigDir(), "transcripts")
}
