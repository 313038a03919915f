package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8080
	DefaultResetInterval = 60 * time.Second
	DefaultAllowedOrigin = "*"
)

// DefaultAllowedMethods are the methods the cross-origin policy permits.
var DefaultAllowedMethods = []string{"GET", "POST", "OPTIONS"}

var (
	errInvalidPort          = errors.New("port must be between 1 and 65535")
	errInvalidInterval      = errors.New("reset interval must be positive")
	errNoMethods            = errors.New("cors: at least one allowed method is required")
	errUnsupportedMethod    = errors.New("cors: unsupported method")
	errCredentialsAnyOrigin = errors.New("cors: credentials cannot be allowed for a wildcard origin")
)

// Config holds configuration loaded from file.
type Config struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	ResetInterval time.Duration `yaml:"resetInterval"`
	CORS          CORSConfig    `yaml:"cors"`
}

// CORSConfig is the cross-origin policy applied to every route.
type CORSConfig struct {
	AllowedOrigin    string   `yaml:"allowedOrigin"`
	AllowedMethods   []string `yaml:"allowedMethods"`
	AllowCredentials bool     `yaml:"allowCredentials"`
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// Load reads a YAML config file and fills in defaults. A missing file is not
// an error. The result is not validated, so callers can apply overrides
// before calling Validate.
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.setDefaults()
	return &config, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ResetInterval == 0 {
		c.ResetInterval = DefaultResetInterval
	}
	if c.CORS.AllowedOrigin == "" {
		c.CORS.AllowedOrigin = DefaultAllowedOrigin
	}
	if c.CORS.AllowedMethods == nil {
		c.CORS.AllowedMethods = append([]string(nil), DefaultAllowedMethods...)
	}
	for i, m := range c.CORS.AllowedMethods {
		c.CORS.AllowedMethods[i] = strings.ToUpper(strings.TrimSpace(m))
	}
}

// Validate checks the listen settings and the cross-origin policy.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", errInvalidPort, c.Port)
	}
	if c.ResetInterval <= 0 {
		return fmt.Errorf("%w: %s", errInvalidInterval, c.ResetInterval)
	}
	return c.CORS.Validate()
}

// Validate rejects policies that browsers would refuse or that allow methods
// the service does not serve. Methods must already be upper case.
func (c CORSConfig) Validate() error {
	if len(c.AllowedMethods) == 0 {
		return errNoMethods
	}
	for _, m := range c.AllowedMethods {
		if !isDefaultMethod(m) {
			return fmt.Errorf("%w: %q", errUnsupportedMethod, m)
		}
	}
	if c.AllowCredentials && c.AllowedOrigin == "*" {
		return errCredentialsAnyOrigin
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func isDefaultMethod(m string) bool {
	for _, allowed := range DefaultAllowedMethods {
		if m == allowed {
			return true
		}
	}
	return false
}
