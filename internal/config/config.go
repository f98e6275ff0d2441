package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool `env:"DEBUG_MODE"` // development logger

	// Chat completion endpoint
	APIKey     string `env:"API_KEY"`      // bearer token
	APIBaseURL string `env:"API_BASE_URL"` // {base}/chat/completions
	LLMModel   string `env:"LLM_MODEL"`    // model name sent with every request

	// Async image generation service
	ImageServiceURL  string        `env:"IMAGE_SERVICE_URL"`
	TaskPollInterval time.Duration `env:"TASK_POLL_INTERVAL"` // interval used by imagetask.Client.Wait

	// Photo-by-seed placeholder service
	PlaceholderBaseURL string `env:"PLACEHOLDER_BASE_URL"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT"` // outbound request timeout
}

var (
	ErrLLMNotConfigured   = errors.New("API configuration missing: set API_KEY and API_BASE_URL")
	ErrImageNotConfigured = errors.New("image service configuration missing: set IMAGE_SERVICE_URL")
)

// Defaults returns the configuration with preset values.
// They are overridden by .env, environment variables and CLI flags.
func Defaults() *Config {
	return &Config{
		DebugMode:          false,
		LLMModel:           "gpt-3.5-turbo",
		TaskPollInterval:   2 * time.Second,
		PlaceholderBaseURL: "https://picsum.photos",
		HTTPTimeout:        60 * time.Second,
	}
}

// Load reads .env and the environment on top of Defaults. It does not touch flags.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// NewConfig loads the application configuration and applies command line flags.
// Callers register their own flags before calling it, flag.Parse runs here.
func NewConfig() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}

	flag.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "enable development logging")
	flag.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "chat completion API key (overrides API_KEY)")
	flag.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "chat completion base URL, e.g. https://api.openai.com/v1")
	flag.StringVar(&cfg.LLMModel, "llm-model", cfg.LLMModel, "model name")
	flag.StringVar(&cfg.ImageServiceURL, "image-service-url", cfg.ImageServiceURL, "async image generation service base URL")
	flag.DurationVar(&cfg.TaskPollInterval, "task-poll-interval", cfg.TaskPollInterval, "interval between task status polls, e.g. 2s")
	flag.StringVar(&cfg.PlaceholderBaseURL, "placeholder-base-url", cfg.PlaceholderBaseURL, "photo-by-seed service base URL")
	flag.DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "outbound HTTP timeout, e.g. 60s")
	flag.Parse()

	cfg.normalize()
	return cfg
}

// RequireLLM reports whether the chat completion endpoint is usable.
func (c *Config) RequireLLM() error {
	if strings.TrimSpace(c.APIKey) == "" || strings.TrimSpace(c.APIBaseURL) == "" {
		return ErrLLMNotConfigured
	}
	return nil
}

// RequireImageService reports whether the task service is usable.
func (c *Config) RequireImageService() error {
	if strings.TrimSpace(c.ImageServiceURL) == "" {
		return ErrImageNotConfigured
	}
	return nil
}

func (c *Config) normalize() {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	c.ImageServiceURL = strings.TrimRight(strings.TrimSpace(c.ImageServiceURL), "/")
	c.PlaceholderBaseURL = strings.TrimRight(strings.TrimSpace(c.PlaceholderBaseURL), "/")
	if c.LLMModel == "" {
		c.LLMModel = Defaults().LLMModel
	}
	if c.PlaceholderBaseURL == "" {
		c.PlaceholderBaseURL = Defaults().PlaceholderBaseURL
	}
	if c.TaskPollInterval <= 0 {
		c.TaskPollInterval = Defaults().TaskPollInterval
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = Defaults().HTTPTimeout
	}
}
