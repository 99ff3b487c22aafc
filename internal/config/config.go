package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("ubounty version %s, commit %s, built at %s", version, commit, date)
}

// Version returns the bare version string, used for User-Agent headers.
func Version() string {
	return version
}

type Config struct {
	// GitHubToken is a personal access token override. When empty the token
	// saved by `ubounty login` is used instead.
	GitHubToken string `mapstructure:"github_token" yaml:"github_token"`

	// AnthropicAPIKey authorizes calls to the Claude API.
	AnthropicAPIKey string `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key"`

	// Model settings for the issue-fixing agent.
	Model       string  `mapstructure:"model" yaml:"model"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`

	// CLI behavior.
	DefaultBaseBranch string `mapstructure:"default_base_branch" yaml:"default_base_branch"`
	AutoCommit        bool   `mapstructure:"auto_commit" yaml:"auto_commit"`
	AutoPR            bool   `mapstructure:"auto_pr" yaml:"auto_pr"`

	// APIURL is the base URL of the ubounty backend.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level" yaml:"level"`
	Format            string `mapstructure:"format" yaml:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace" yaml:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path" yaml:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file" yaml:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console" yaml:"disable_console"`
}

// Dir returns the per-user configuration directory (~/.config/ubounty).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".ubounty")
	}
	return filepath.Join(home, ".config", "ubounty")
}

// CredentialsPath returns the path of the saved GitHub credential file.
func CredentialsPath() string {
	return filepath.Join(Dir(), "credentials.json")
}

func setDefaults() {
	viper.SetDefault("model", "claude-3-5-sonnet-20241022")
	viper.SetDefault("max_tokens", 8192)
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("default_base_branch", "main")
	viper.SetDefault("auto_commit", false)
	viper.SetDefault("auto_pr", false)
	viper.SetDefault("api_url", "https://ubounty.ai")
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.disable_stacktrace", true)
}

func Load() (*Config, error) {
	viper.Reset() // Ensure clean state

	// A .env file in the working directory supplements the environment,
	// never overriding variables that are already set.
	_ = godotenv.Load()

	viper.SetEnvPrefix("UBOUNTY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// config.yaml is optional: ./config.yaml first, then ~/.config/ubounty.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(Dir())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unprefixed variables used by the original tooling keep working.
	if v := os.Getenv("GITHUB_TOKEN"); v != "" && viper.GetString("github_token") == "" {
		viper.Set("github_token", v)
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && viper.GetString("anthropic_api_key") == "" {
		viper.Set("anthropic_api_key", v)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.APIURL == "" {
		return nil, fmt.Errorf("api_url is required, please adjust the config or set the UBOUNTY_API_URL environment variable")
	}
	config.APIURL = strings.TrimRight(config.APIURL, "/")

	return &config, nil
}

// HasGitHubToken reports whether a personal access token override is set.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// HasAnthropicKey reports whether the Claude API key is configured.
func (c *Config) HasAnthropicKey() bool {
	return c.AnthropicAPIKey != ""
}

// WriteStarter writes a commented starter config file to path. Existing
// files are left untouched.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	starter := Config{
		Model:             "claude-3-5-sonnet-20241022",
		MaxTokens:         8192,
		Temperature:       0.7,
		DefaultBaseBranch: "main",
		APIURL:            "https://ubounty.ai",
		Logging: LoggingConfig{
			Level:             "warn",
			Format:            "console",
			DisableStacktrace: true,
		},
	}

	raw, err := yaml.Marshal(starter)
	if err != nil {
		return fmt.Errorf("marshaling starter config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, raw, 0o600)
}
