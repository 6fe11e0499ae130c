package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort              = "3000"
	DefaultAuthServiceURL    = "http://localhost:8080"
	DefaultFlightsServiceURL = "http://localhost:8081"
	DefaultTicketsServiceURL = "http://localhost:8082"
	DefaultRateLimitRPS      = 20.0
	DefaultRateLimitBurst    = 40
)

// Config holds the settings shared by the proxy server and the CLI
type Config struct {
	Port              string        `yaml:"port"`
	AuthServiceURL    string        `yaml:"auth_service_url"`
	FlightsServiceURL string        `yaml:"flights_service_url"`
	TicketsServiceURL string        `yaml:"tickets_service_url"`
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"`
	HTTPTimeout       time.Duration `yaml:"http_timeout"`
	RateLimitRPS      float64       `yaml:"rate_limit_rps"`
	RateLimitBurst    int           `yaml:"rate_limit_burst"`
	CORSOrigins       []string      `yaml:"cors_origins"`
	SessionFile       string        `yaml:"session_file"`
}

// Default returns the built-in configuration. HTTPTimeout is zero, meaning
// backend calls are bounded only by their context.
func Default() Config {
	return Config{
		Port:              DefaultPort,
		AuthServiceURL:    DefaultAuthServiceURL,
		FlightsServiceURL: DefaultFlightsServiceURL,
		TicketsServiceURL: DefaultTicketsServiceURL,
		LogLevel:          "info",
		LogFormat:         "json",
		RateLimitRPS:      DefaultRateLimitRPS,
		RateLimitBurst:    DefaultRateLimitBurst,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// FLIGHT_CONFIG (if set), then individual environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("FLIGHT_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the keys present in a YAML file onto cfg.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("API_PORT", c.Port)
	c.AuthServiceURL = getEnv("AUTH_SERVICE_URL", c.AuthServiceURL)
	c.FlightsServiceURL = getEnv("FLIGHTS_SERVICE_URL", c.FlightsServiceURL)
	c.TicketsServiceURL = getEnv("TICKETS_SERVICE_URL", c.TicketsServiceURL)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.SessionFile = getEnv("SESSION_FILE", c.SessionFile)

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", v, err)
		}
		c.HTTPTimeout = d
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
		c.RateLimitRPS = rps
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST %q: %w", v, err)
		}
		c.RateLimitBurst = burst
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	return nil
}

// Validate checks the service URLs, log settings and rate limits.
func (c Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{
		"auth_service_url":    c.AuthServiceURL,
		"flights_service_url": c.FlightsServiceURL,
		"tickets_service_url": c.TicketsServiceURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s: invalid URL %q", name, raw))
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("log_format: must be json or text, got %q", c.LogFormat))
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, errors.New("http_timeout: must not be negative"))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limit: rps and burst must not be negative"))
	}
	return errors.Join(errs...)
}

// RateLimitEnabled reports whether a positive rate limit is configured.
func (c Config) RateLimitEnabled() bool {
	return c.RateLimitRPS > 0 && c.RateLimitBurst > 0
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// NewLogger builds the slog logger described by cfg, writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
