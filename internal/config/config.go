// Package config holds the process configuration for the mealdb tool server.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mcp-mealdb/internal/logging"
	"mcp-mealdb/internal/mealdb"
)

// Transports the tool server can speak MCP over.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 8011
	DefaultLogLevel = "info"

	DefaultTransport = TransportHTTP

	// DefaultShutdownTimeout bounds graceful HTTP shutdown.
	DefaultShutdownTimeout = 15 * time.Second
)

// Config is the full process configuration. Zero values are filled from
// Default by Load.
type Config struct {
	Transport       string        `yaml:"transport"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	BaseURL         string        `yaml:"base_url"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`

	// PublicURL is the externally reachable root of the HTTP server. SSE
	// clients are told to post messages under it. Empty derives it from
	// Host and Port.
	PublicURL string `yaml:"public_url"`
}

// Default returns a configuration pointing at the public upstream.
func Default() *Config {
	return &Config{
		Transport:       DefaultTransport,
		Host:            DefaultHost,
		Port:            DefaultPort,
		BaseURL:         mealdb.DefaultBaseURL,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
		CORSOrigins:     []string{"*"},
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Address returns the host:port listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerURL returns PublicURL, or http://host:port with a wildcard host
// replaced by localhost.
func (c *Config) ServerURL() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	host := c.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(c.Port)))
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("invalid transport %q: must be %s or %s", c.Transport, TransportHTTP, TransportStdio)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if err := validateHTTPURL("base url", c.BaseURL); err != nil {
		return err
	}

	if c.PublicURL != "" {
		if err := validateHTTPURL("public url", c.PublicURL); err != nil {
			return err
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}

	return nil
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", name, raw)
	}
	return nil
}
