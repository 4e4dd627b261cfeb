package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	FetchMode       string `mapstructure:"FETCH_MODE"`
	FetchTimeout    int    `mapstructure:"FETCH_TIMEOUT"`
	MaxBodyBytes    int64  `mapstructure:"MAX_BODY_BYTES"`
	UserAgents      string `mapstructure:"USER_AGENTS"`
	Proxies         string `mapstructure:"PROXIES"`
	PostgresURL     string `mapstructure:"POSTGRES_URL"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`
	CacheTTLMinutes int    `mapstructure:"CACHE_TTL_MINUTES"`
}

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

var keys = []string{
	"SERVER_PORT", "LOG_LEVEL", "FETCH_MODE", "FETCH_TIMEOUT", "MAX_BODY_BYTES",
	"USER_AGENTS", "PROXIES", "POSTGRES_URL", "REDIS_ADDR", "REDIS_PASSWORD",
	"REDIS_DB", "CACHE_TTL_MINUTES",
}

// LoadFile reads configuration from the env file at path and from
// environment variables, which take precedence.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing file is fine; production is configured purely through the environment.
	_ = v.ReadInConfig()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FETCH_MODE", FetchModeHTTP)
	v.SetDefault("FETCH_TIMEOUT", 15) // in seconds
	v.SetDefault("MAX_BODY_BYTES", 2<<20)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_MINUTES", 60)

	// Unmarshal only sees keys viper knows about, so bind the ones without defaults.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FetchTimeoutDuration returns FetchTimeout as a duration.
func (c *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// CacheTTL returns CacheTTLMinutes as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// UserAgentList splits USER_AGENTS on commas.
func (c *Config) UserAgentList() []string { return splitList(c.UserAgents) }

// ProxyList splits PROXIES on commas.
func (c *Config) ProxyList() []string { return splitList(c.Proxies) }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
