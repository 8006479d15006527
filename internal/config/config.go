package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort                = "8080"
	defaultEnv                 = "development"
	defaultMLServiceURL        = "http://127.0.0.1:8000"
	defaultMLTimeoutSeconds    = 30
	defaultMLMaxRetries        = 2
	defaultConfidenceThreshold = 0.6
	defaultMaxResults          = 3
	defaultBudgetPolicy        = "normalized"
	defaultOpenWeatherBaseURL  = "https://api.openweathermap.org"
	defaultUnsplashBaseURL     = "https://api.unsplash.com"
	defaultClimateCacheTTLMins = 30
)

// Config holds runtime settings. Values come from an optional YAML file,
// then environment variables, then defaults.
type Config struct {
	Port        string `yaml:"port"`
	Env         string `yaml:"env"`
	DatabaseURL string `yaml:"database_url"`
	RedisAddr   string `yaml:"redis_addr"`

	MLServiceURL        string  `yaml:"ml_service_url"`
	MLTimeoutSeconds    int     `yaml:"ml_timeout_seconds"`
	MLMaxRetries        *int    `yaml:"ml_max_retries"`
	ConfidenceThreshold *float64 `yaml:"ml_confidence_threshold"`
	MaxResults          int     `yaml:"ml_max_results"`
	BudgetPolicy        string  `yaml:"budget_policy"`

	OpenWeatherAPIKey  string `yaml:"openweather_api_key"`
	OpenWeatherBaseURL string `yaml:"openweather_base_url"`
	UnsplashAccessKey  string `yaml:"unsplash_access_key"`
	UnsplashBaseURL    string `yaml:"unsplash_base_url"`

	ClimateCacheTTLMinutes int `yaml:"climate_cache_ttl_minutes"`
}

// MLTimeout is the per-attempt ML timeout
func (c Config) MLTimeout() time.Duration {
	return time.Duration(c.MLTimeoutSeconds) * time.Second
}

// ClimateCacheTTL is how long a resolved climate stays cached
func (c Config) ClimateCacheTTL() time.Duration {
	return time.Duration(c.ClimateCacheTTLMinutes) * time.Minute
}

// Retries returns the configured retry count
func (c Config) Retries() int {
	if c.MLMaxRetries == nil {
		return defaultMLMaxRetries
	}
	return *c.MLMaxRetries
}

// Threshold returns the configured confidence threshold
func (c Config) Threshold() float64 {
	if c.ConfidenceThreshold == nil {
		return defaultConfidenceThreshold
	}
	return *c.ConfidenceThreshold
}

// Load reads CONFIG_PATH (default config.yaml) if present and applies
// environment overrides and defaults.
func Load() (Config, error) {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	envOverride(&cfg.Port, "PORT")
	envOverride(&cfg.Env, "GO_ENV")
	envOverride(&cfg.DatabaseURL, "DATABASE_URL")
	envOverride(&cfg.RedisAddr, "REDIS_ADDR")
	envOverride(&cfg.MLServiceURL, "ML_SERVICE_URL")
	envOverride(&cfg.BudgetPolicy, "BUDGET_POLICY")
	envOverride(&cfg.OpenWeatherAPIKey, "OPENWEATHER_API_KEY")
	envOverride(&cfg.OpenWeatherBaseURL, "OPENWEATHER_BASE_URL")
	envOverride(&cfg.UnsplashAccessKey, "UNSPLASH_ACCESS_KEY")
	envOverride(&cfg.UnsplashBaseURL, "UNSPLASH_BASE_URL")

	if err := envOverrideInt(&cfg.MLTimeoutSeconds, "ML_TIMEOUT_SECONDS"); err != nil {
		return Config{}, err
	}
	if val := os.Getenv("ML_MAX_RETRIES"); val != "" {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid ML_MAX_RETRIES %q: %w", val, err)
		}
		cfg.MLMaxRetries = &n
	}
	if val := os.Getenv("ML_CONFIDENCE_THRESHOLD"); val != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid ML_CONFIDENCE_THRESHOLD %q: %w", val, err)
		}
		cfg.ConfidenceThreshold = &f
	}
	if err := envOverrideInt(&cfg.MaxResults, "ML_MAX_RESULTS"); err != nil {
		return Config{}, err
	}
	if err := envOverrideInt(&cfg.ClimateCacheTTLMinutes, "CLIMATE_CACHE_TTL_MINUTES"); err != nil {
		return Config{}, err
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.MLServiceURL == "" {
		cfg.MLServiceURL = defaultMLServiceURL
	}
	if cfg.MLTimeoutSeconds == 0 {
		cfg.MLTimeoutSeconds = defaultMLTimeoutSeconds
	}
	if cfg.MLMaxRetries == nil {
		n := defaultMLMaxRetries
		cfg.MLMaxRetries = &n
	}
	if cfg.ConfidenceThreshold == nil {
		f := defaultConfidenceThreshold
		cfg.ConfidenceThreshold = &f
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.BudgetPolicy == "" {
		cfg.BudgetPolicy = defaultBudgetPolicy
	}
	if cfg.OpenWeatherBaseURL == "" {
		cfg.OpenWeatherBaseURL = defaultOpenWeatherBaseURL
	}
	if cfg.UnsplashBaseURL == "" {
		cfg.UnsplashBaseURL = defaultUnsplashBaseURL
	}
	if cfg.ClimateCacheTTLMinutes == 0 {
		cfg.ClimateCacheTTLMinutes = defaultClimateCacheTTLMins
	}
}

func (c Config) validate() error {
	if c.MLTimeoutSeconds < 1 {
		return fmt.Errorf("config: invalid ml_timeout_seconds %d: must be >= 1", c.MLTimeoutSeconds)
	}
	if c.Retries() < 0 {
		return fmt.Errorf("config: invalid ml_max_retries %d: must be >= 0", c.Retries())
	}
	if t := c.Threshold(); t < 0 || t > 1 {
		return fmt.Errorf("config: invalid ml_confidence_threshold %f: must be between 0 and 1", t)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("config: invalid ml_max_results %d: must be >= 1", c.MaxResults)
	}
	switch strings.ToLower(c.BudgetPolicy) {
	case "normalized", "dollar":
	default:
		return fmt.Errorf("config: budget_policy must be 'normalized' or 'dollar', got %q", c.BudgetPolicy)
	}
	if c.ClimateCacheTTLMinutes < 1 {
		return fmt.Errorf("config: invalid climate_cache_ttl_minutes %d: must be >= 1", c.ClimateCacheTTLMinutes)
	}
	return nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fmt.Errorf("config: invalid %s %q: %w", envKey, val, err)
	}
	*field = n
	return nil
}
