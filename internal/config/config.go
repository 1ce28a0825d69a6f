// Package config loads the predictform YAML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-predictform/pkg/predict"
)

// Config is the root configuration document.
type Config struct {
	Predictor PredictorConfig `yaml:"predictor"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Theme     ThemeConfig     `yaml:"theme"`
}

// PredictorConfig configures the outbound prediction client.
type PredictorConfig struct {
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"`
	// ValidateContract checks request and response bodies against the
	// embedded OpenAPI description.
	ValidateContract bool `yaml:"validate_contract"`
}

// ServerConfig configures the HTTP component and listener.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	BasePath     string `yaml:"base_path"`
	RoutePath    string `yaml:"route_path"`
	Title        string `yaml:"title"`
	TemplatesDir string `yaml:"templates_dir"`
	Notice       string `yaml:"notice,omitempty"`
	CookieName   string `yaml:"cookie_name"`
	SecureCookie bool   `yaml:"secure_cookie"`
	SessionTTL   string `yaml:"session_ttl"`
	MaxSessions  int    `yaml:"max_sessions"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "json" or "console".
	Format string `yaml:"format"`
}

// ThemeConfig holds design tokens for the HTML page. Empty Tokens disables
// theming.
type ThemeConfig struct {
	Name     string                       `yaml:"name"`
	Variant  string                       `yaml:"variant"`
	Tokens   map[string]string            `yaml:"tokens,omitempty"`
	Variants map[string]map[string]string `yaml:"variants,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Predictor: PredictorConfig{
			Endpoint:         predict.DefaultEndpoint,
			Timeout:          "30s",
			ValidateContract: true,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			RoutePath:   "/",
			Title:       "Prediction Form",
			CookieName:  "predictform_session",
			SessionTTL:  "30m",
			MaxSessions: 1000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Theme: ThemeConfig{
			Name: "default",
		},
	}
}

// Load reads the YAML file at path over DefaultConfig. A missing file yields
// the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ApplyDefaults fills keys the YAML left empty.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	c.Predictor.Endpoint = strings.TrimSpace(c.Predictor.Endpoint)
	if c.Predictor.Endpoint == "" {
		c.Predictor.Endpoint = def.Predictor.Endpoint
	}
	if strings.TrimSpace(c.Predictor.Timeout) == "" {
		c.Predictor.Timeout = def.Predictor.Timeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.RoutePath == "" {
		c.Server.RoutePath = def.Server.RoutePath
	}
	if c.Server.Title == "" {
		c.Server.Title = def.Server.Title
	}
	if c.Server.CookieName == "" {
		c.Server.CookieName = def.Server.CookieName
	}
	if c.Server.SessionTTL == "" {
		c.Server.SessionTTL = def.Server.SessionTTL
	}
	if c.Server.MaxSessions <= 0 {
		c.Server.MaxSessions = def.Server.MaxSessions
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Theme.Name == "" {
		c.Theme.Name = def.Theme.Name
	}
}

func (c *Config) applyEnvOverrides() {
	if endpoint := os.Getenv("PREDICTFORM_ENDPOINT"); endpoint != "" {
		c.Predictor.Endpoint = endpoint
	}
	if addr := os.Getenv("PREDICTFORM_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("PREDICTFORM_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Predictor.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: predictor.endpoint %q must be an absolute http(s) URL", c.Predictor.Endpoint)
	}
	if _, err := parseDuration("predictor.timeout", c.Predictor.Timeout); err != nil {
		return err
	}
	if _, err := parseDuration("server.session_ttl", c.Server.SessionTTL); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q must be json or console", c.Log.Format)
	}
	if c.Theme.Variant != "" {
		if _, ok := c.Theme.Variants[c.Theme.Variant]; !ok {
			return fmt.Errorf("config: theme.variant %q is not defined", c.Theme.Variant)
		}
	}
	return nil
}

// GetTimeout returns the predictor timeout. Zero disables it.
func (c *Config) GetTimeout() time.Duration {
	d, err := parseDuration("predictor.timeout", c.Predictor.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetSessionTTL returns the session idle timeout.
func (c *Config) GetSessionTTL() time.Duration {
	d, err := parseDuration("server.session_ttl", c.Server.SessionTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// Manifest converts the theme section into a go-theme manifest, or nil when
// no tokens are configured.
func (c *Config) Manifest() *theme.Manifest {
	if len(c.Theme.Tokens) == 0 && len(c.Theme.Variants) == 0 {
		return nil
	}
	manifest := &theme.Manifest{
		Name:    c.Theme.Name,
		Version: "1.0.0",
		Tokens:  copyTokens(c.Theme.Tokens),
	}
	if len(c.Theme.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(c.Theme.Variants))
		for name, tokens := range c.Theme.Variants {
			manifest.Variants[name] = theme.Variant{Tokens: copyTokens(tokens)}
		}
	}
	return manifest
}

func copyTokens(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s must not be negative", key)
	}
	return d, nil
}
