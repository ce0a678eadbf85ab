package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/yuriy-kovalchuk/yk-tunnel-dns/internal/reconcile"
)

const (
	// EnvConfigPath overrides the default configuration file location.
	EnvConfigPath = "TUNNEL_DNS_CONFIG_PATH"

	defaultPath        = "configs/tunnel-dns.yaml"
	defaultConcurrency = 4
	defaultTTL         = 1 // automatic
)

// Config holds the account scope, credentials, and record defaults for a
// reconciliation run.
type Config struct {
	AccountID        string `yaml:"account_id"`
	APIToken         string `yaml:"api_token"`
	TargetSuffix     string `yaml:"target_suffix"`
	FetchConcurrency int    `yaml:"fetch_concurrency"`
	Proxied          *bool  `yaml:"proxied"`
	TTL              int64  `yaml:"ttl"`
}

// Load reads the configuration from the path specified by the
// TUNNEL_DNS_CONFIG_PATH environment variable, defaulting to
// "configs/tunnel-dns.yaml".
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = defaultPath
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from the given file path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand ${ENV_VAR} references so credentials can stay out of the file.
	cfg.AccountID = os.ExpandEnv(cfg.AccountID)
	cfg.APIToken = os.ExpandEnv(cfg.APIToken)

	if cfg.TargetSuffix == "" {
		cfg.TargetSuffix = reconcile.DefaultTargetSuffix
	}
	if cfg.FetchConcurrency == 0 {
		cfg.FetchConcurrency = defaultConcurrency
	}
	if cfg.TTL == 0 {
		cfg.TTL = defaultTTL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AccountID == "" {
		return fmt.Errorf("config: missing required field 'account_id'")
	}
	if c.APIToken == "" {
		return fmt.Errorf("config: missing required field 'api_token'")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("config: fetch_concurrency must be at least 1, got %d", c.FetchConcurrency)
	}
	// Cloudflare accepts 1 (automatic) or 60..86400 seconds.
	if c.TTL != 1 && (c.TTL < 60 || c.TTL > 86400) {
		return fmt.Errorf("config: ttl must be 1 (automatic) or between 60 and 86400, got %d", c.TTL)
	}
	return nil
}

// ProxiedValue returns whether created and updated records are proxied
// through Cloudflare. Unset defaults to true: tunnel CNAMEs only resolve
// when proxied.
func (c *Config) ProxiedValue() bool {
	if c.Proxied == nil {
		return true
	}
	return *c.Proxied
}
