package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube     YouTubeConfig    `yaml:"youtube"`
	AI          AIConfig         `yaml:"ai"`
	Blob        BlobConfig       `yaml:"blob"`
	Fetch       FetchConfig      `yaml:"fetch"`
	Monitoring  MonitoringConfig `yaml:"monitoring"`
	Schedule    string           `yaml:"schedule"`
	OutputDir   string           `yaml:"output_dir"`
	DownloadDir string           `yaml:"download_dir"`
}

type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
}

type AIConfig struct {
	Provider     string `yaml:"provider"`
	OpenAIAPIKey string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
	MaxTokens    int    `yaml:"max_tokens"`
	SampleSize   int    `yaml:"sample_size"`
}

type BlobConfig struct {
	ConnectionString    string `yaml:"connection_string" env:"BLOB_CONNECTION_STRING"`
	Container           string `yaml:"container" env:"BLOB_CONTAINER"`
	AccessKeyID         string `yaml:"access_key_id" env:"BLOB_ACCESS_KEY_ID"`
	SecretAccessKey     string `yaml:"secret_access_key" env:"BLOB_SECRET_ACCESS_KEY"`
	Region              string `yaml:"region" env:"BLOB_REGION"`
	AccountURL          string `yaml:"account_url" env:"BLOB_ACCOUNT_URL"`
	UseConnectionString *bool  `yaml:"use_connection_string"`
}

type FetchConfig struct {
	MaxComments int `yaml:"max_comments"`
	PageSize    int `yaml:"page_size"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	// The YAML file is optional; the environment alone is a complete config.
	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.YouTube.ClientID == "" {
		cfg.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.YouTube.ClientSecret == "" {
		cfg.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if cfg.YouTube.TokenFile == "" {
		cfg.YouTube.TokenFile = "youtube_token.json"
	}
	if cfg.AI.OpenAIAPIKey == "" {
		cfg.AI.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Blob.ConnectionString == "" {
		cfg.Blob.ConnectionString = os.Getenv("BLOB_CONNECTION_STRING")
	}
	if cfg.Blob.Container == "" {
		cfg.Blob.Container = os.Getenv("BLOB_CONTAINER")
	}
	if cfg.Blob.AccessKeyID == "" {
		cfg.Blob.AccessKeyID = os.Getenv("BLOB_ACCESS_KEY_ID")
	}
	if cfg.Blob.SecretAccessKey == "" {
		cfg.Blob.SecretAccessKey = os.Getenv("BLOB_SECRET_ACCESS_KEY")
	}
	if cfg.Blob.Region == "" {
		cfg.Blob.Region = os.Getenv("BLOB_REGION")
	}
	if cfg.Blob.AccountURL == "" {
		cfg.Blob.AccountURL = os.Getenv("BLOB_ACCOUNT_URL")
	}
	if cfg.Blob.UseConnectionString == nil {
		if v := os.Getenv("BLOB_USE_CONNECTION_STRING"); v != "" {
			b := strings.EqualFold(v, "true")
			cfg.Blob.UseConnectionString = &b
		}
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.AI.Provider == "" {
		c.AI.Provider = "openai"
	}
	if c.AI.Model == "" {
		switch c.AI.Provider {
		case "gemini":
			c.AI.Model = "gemini-2.5-flash"
		default:
			c.AI.Model = "gpt-4"
		}
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = 1500
	}
	if c.AI.SampleSize == 0 {
		c.AI.SampleSize = 50
	}
	if c.Blob.Container == "" {
		c.Blob.Container = "youtube-comments"
	}
	if c.Fetch.MaxComments == 0 {
		c.Fetch.MaxComments = 500
	}
	if c.Fetch.PageSize == 0 {
		c.Fetch.PageSize = 100
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 9 * * *" // Daily at 9 AM
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.DownloadDir == "" {
		c.DownloadDir = "download_blobs"
	}
}

func (c *Config) validate() error {
	switch c.AI.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown AI provider %q (use openai or gemini)", c.AI.Provider)
	}
	if c.Fetch.MaxComments < 0 {
		return fmt.Errorf("fetch.max_comments must not be negative")
	}
	if c.Fetch.PageSize < 1 || c.Fetch.PageSize > 100 {
		return fmt.Errorf("fetch.page_size must be between 1 and 100 (API page limit)")
	}
	if c.AI.SampleSize < 1 {
		return fmt.Errorf("ai.sample_size must be positive")
	}
	return nil
}

// ConnectionStringAuth reports whether the blob gateway should authenticate
// with the pre-shared connection string. Defaults to true when unset.
func (b *BlobConfig) ConnectionStringAuth() bool {
	if b.UseConnectionString == nil {
		return true
	}
	return *b.UseConnectionString
}

// APIKeyFor returns the credential for the configured provider.
func (a *AIConfig) APIKeyFor() string {
	if a.Provider == "gemini" {
		return a.GeminiAPIKey
	}
	return a.OpenAIAPIKey
}
