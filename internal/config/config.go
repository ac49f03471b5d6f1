package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported AI providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	AI     AIConfig     `yaml:"ai"`
	Limits LimitsConfig `yaml:"limits"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
	// TrustProxy takes the client address from X-Forwarded-For. Enable only
	// behind a proxy that sets the header.
	TrustProxy bool `yaml:"trust_proxy"`
}

// AIConfig selects and tunes the completion provider. The credential and the
// base URL come from the environment only.
type AIConfig struct {
	Provider      string        `yaml:"provider"`
	Model         string        `yaml:"model"`
	MaxTokens     int           `yaml:"max_tokens"`
	MaxInputChars int           `yaml:"max_input_chars"`
	Timeout       time.Duration `yaml:"timeout"`

	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"-"`
}

type LimitsConfig struct {
	RateCapacity     int   `yaml:"rate_capacity"`
	RateRefillPerSec int   `yaml:"rate_refill_per_sec"`
	MaxBodyBytes     int64 `yaml:"max_body_bytes"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
			CORSOrigins:  []string{"*"},
		},
		AI: AIConfig{
			Provider:      ProviderAnthropic,
			Model:         "claude-haiku-4-5-20251001",
			MaxTokens:     2048,
			MaxInputChars: 15000,
			Timeout:       60 * time.Second,
		},
		Limits: LimitsConfig{
			RateCapacity:     10,
			RateRefillPerSec: 1,
			MaxBodyBytes:     16 << 20,
		},
	}
}

// LoadDotEnv loads .env files when present. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env.local", ".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := getInt("PORT", 0); v > 0 {
		c.Server.Port = v
	}
	if v := os.Getenv("TRUST_PROXY"); v != "" {
		c.Server.TrustProxy = v == "true" || v == "1"
	}
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		c.AI.Provider = v
	}
	c.AI.APIKey = os.Getenv(c.CredentialEnv())
	c.AI.BaseURL = os.Getenv(c.baseURLEnv())
}

// CredentialEnv names the environment variable holding the provider credential.
func (c *Config) CredentialEnv() string {
	if c.AI.Provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

func (c *Config) baseURLEnv() string {
	if c.AI.Provider == ProviderOpenAI {
		return "OPENAI_BASE_URL"
	}
	return "ANTHROPIC_BASE_URL"
}

// Validate checks if the configuration is valid. A missing credential is
// allowed: the server starts and reports the service as not configured.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown ai.provider %q (allowed: %s, %s)", c.AI.Provider, ProviderAnthropic, ProviderOpenAI)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai.max_tokens must be positive")
	}
	if c.AI.MaxInputChars <= 0 {
		return fmt.Errorf("ai.max_input_chars must be positive")
	}
	if c.Limits.MaxBodyBytes <= 0 {
		return fmt.Errorf("limits.max_body_bytes must be positive")
	}
	if c.Limits.RateCapacity <= 0 || c.Limits.RateRefillPerSec <= 0 {
		return fmt.Errorf("limits.rate_capacity and limits.rate_refill_per_sec must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
