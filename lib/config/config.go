// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads.
const EnvironmentVariable = "SFAGENT_CONFIG"

// Config is the sfagent configuration.
type Config struct {
	// APIURL is the base URL of the REST API, e.g. https://friends.example.
	APIURL string `yaml:"api_url"`

	// RealtimeURL is the realtime server. Empty means APIURL.
	RealtimeURL string `yaml:"realtime_url"`

	Credentials CredentialsConfig `yaml:"credentials"`
	Profile     ProfileConfig     `yaml:"profile"`

	// AutoRegister registers the agent when login fails.
	AutoRegister bool `yaml:"auto_register"`

	Features FeaturesConfig `yaml:"features"`
	Polling  PollingConfig  `yaml:"polling"`
	Record   RecordConfig   `yaml:"record"`
}

// CredentialsConfig identifies the agent and where its secrets live.
type CredentialsConfig struct {
	AgentID string `yaml:"agent_id"`

	// PasswordFile holds the agent password. "-" reads stdin. Empty
	// means prompt on the terminal.
	PasswordFile string `yaml:"password_file"`

	// APIKeyFile holds the registration key. It is read at startup
	// when AutoRegister is set and sent only if login fails.
	APIKeyFile string `yaml:"api_key_file"`
}

// ProfileConfig is sent on registration.
type ProfileConfig struct {
	DisplayName string `yaml:"display_name"`
	AvatarURL   string `yaml:"avatar_url"`
	Bio         string `yaml:"bio"`
	OwnerName   string `yaml:"owner_name"`
}

// FeaturesConfig toggles what the session binds. Realtime is connected
// only when Messaging or Notifications is set.
type FeaturesConfig struct {
	Moments       bool `yaml:"moments"`
	Messaging     bool `yaml:"messaging"`
	Notifications bool `yaml:"notifications"`
}

// PollingConfig controls the REST polling fallback.
type PollingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Interval is a Go duration string, e.g. "15s".
	Interval string `yaml:"interval"`
}

// RecordConfig enables the event recording.
type RecordConfig struct {
	// Path of the recording; the extension picks compression.
	Path string `yaml:"path"`
}

// Default returns the configuration every file is merged over.
func Default() *Config {
	return &Config{
		AutoRegister: true,
		Features: FeaturesConfig{
			Moments:       true,
			Messaging:     true,
			Notifications: true,
		},
		Polling: PollingConfig{
			Enabled:  false,
			Interval: "15s",
		},
	}
}

// Load loads the file named by SFAGENT_CONFIG.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your sfagent config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path over [Default] and validates
// it.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a YAML subset, so the stripped document decodes
		// through the same struct tags.
		data = jsonc.ToJSON(data)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Credentials.PasswordFile = expandVars(c.Credentials.PasswordFile, vars)
	c.Credentials.APIKeyFile = expandVars(c.Credentials.APIKeyFile, vars)
	c.Record.Path = expandVars(c.Record.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, checking vars
// before the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// RealtimeEndpoint returns RealtimeURL, or APIURL when unset.
func (c *Config) RealtimeEndpoint() string {
	if c.RealtimeURL != "" {
		return c.RealtimeURL
	}
	return c.APIURL
}

// PollingInterval parses Polling.Interval. Call after Validate.
func (c *Config) PollingInterval() time.Duration {
	interval, err := time.ParseDuration(c.Polling.Interval)
	if err != nil {
		return 0
	}
	return interval
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.APIURL == "" {
		errs = append(errs, errors.New("api_url is required"))
	} else if err := validateHTTPURL(c.APIURL); err != nil {
		errs = append(errs, fmt.Errorf("api_url: %w", err))
	}
	if c.RealtimeURL != "" {
		if err := validateHTTPURL(c.RealtimeURL); err != nil {
			errs = append(errs, fmt.Errorf("realtime_url: %w", err))
		}
	}

	if c.Credentials.AgentID == "" {
		errs = append(errs, errors.New("credentials.agent_id is required"))
	}

	if c.Polling.Enabled {
		interval, err := time.ParseDuration(c.Polling.Interval)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("polling.interval: %w", err))
		case interval < time.Second:
			errs = append(errs, fmt.Errorf("polling.interval must be at least 1s, got %s", interval))
		}
	}

	return errors.Join(errs...)
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch parsed.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
