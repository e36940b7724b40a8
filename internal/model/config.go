package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete regscope configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Retry       RetryConfig       `yaml:"retry"`
	Cache       CacheConfig       `yaml:"cache"`
	Data        DataConfig        `yaml:"data"`
	Server      ServerConfig      `yaml:"server"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig configures the eCFR fetch client
type HTTPConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	RespectRobots     bool          `yaml:"respect_robots"`
	InsecureTLS       bool          `yaml:"insecure_tls"`
	HTTPProxy         string        `yaml:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy"`
}

// RetryConfig bounds the exponential backoff applied to transient
// fetch failures (429, 5xx, network errors)
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	Multiplier   float64       `yaml:"multiplier"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// CacheConfig configures the layered payload/response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// DataConfig locates the on-disk fixture store
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	ResponseTTL time.Duration `yaml:"response_ttl"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	DownloadWorkers int `yaml:"download_workers"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		HTTP: HTTPConfig{
			BaseURL:           "https://www.ecfr.gov",
			Timeout:           2 * time.Minute,
			UserAgent:         "regscope/0.1 (+https://github.com/regscope/regscope)",
			MaxBodyBytes:      200_000_000, // Title 40 structure alone approaches 170MB
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			Multiplier:   2,
			MaxDelay:     10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(home, ".regscope", "cache"),
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Data: DataConfig{
			Dir: filepath.Join(home, ".regscope", "data"),
		},
		Server: ServerConfig{
			Addr:        ":8080",
			ResponseTTL: 5 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			DownloadWorkers: 4,
		},
		Output: OutputConfig{},
	}
}
