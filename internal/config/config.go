package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "strand.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"
)

// Config represents the complete strand.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Port is the server port.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Session contains session configuration.
	Session SessionConfig `json:"session,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains metrics endpoint configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Publish contains asset publishing configuration.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files (default: "/static").
	Prefix string `json:"prefix,omitempty"`
}

// SessionConfig contains session configuration.
type SessionConfig struct {
	// ResumeWindow is how long a disconnected session stays resumable
	// (e.g., "30s").
	ResumeWindow string `json:"resumeWindow,omitempty"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string `json:"level,omitempty"`

	// Format is the output format: text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains metrics endpoint configuration.
type MetricsConfig struct {
	// Enabled exposes the Prometheus endpoint when true.
	Enabled bool `json:"enabled,omitempty"`

	// Path is the metrics endpoint path (default: "/metrics").
	Path string `json:"path,omitempty"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled turns on span creation around units of work.
	Enabled bool `json:"enabled,omitempty"`

	// ServiceName is the service name reported on spans.
	ServiceName string `json:"serviceName,omitempty"`
}

// PublishConfig contains asset publishing configuration.
type PublishConfig struct {
	// Bucket is the S3 bucket assets are published to.
	Bucket string `json:"bucket,omitempty"`

	// Region is the bucket's AWS region.
	Region string `json:"region,omitempty"`

	// Prefix is the key prefix within the bucket.
	Prefix string `json:"prefix,omitempty"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Port:    DefaultPort,
		Host:    DefaultHost,
		Static: StaticConfig{
			Dir:    "public",
			Prefix: "/static",
		},
		Session: SessionConfig{
			ResumeWindow: "30s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			ServiceName: "strand",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for strand.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
// A missing file is not an error; defaults are returned.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("strand: reading %s: %w", path, err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("strand: parsing %s: %w", path, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("strand: encoding config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("strand: writing %s: %w", path, err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/static"
	}
	if c.Session.ResumeWindow == "" {
		c.Session.ResumeWindow = "30s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "strand"
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("strand: invalid port %d", c.Port)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("strand: invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("strand: invalid log format %q", c.Log.Format)
	}
	if _, err := c.ResumeWindow(); err != nil {
		return err
	}
	return nil
}

// Address returns the host:port the server binds to.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// URL returns the browsable server URL.
func (c *Config) URL() string {
	return fmt.Sprintf("http://%s", c.Address())
}

// ResumeWindow parses the session resume window duration.
func (c *Config) ResumeWindow() (time.Duration, error) {
	d, err := time.ParseDuration(c.Session.ResumeWindow)
	if err != nil {
		return 0, fmt.Errorf("strand: invalid resumeWindow %q: %w", c.Session.ResumeWindow, err)
	}
	return d, nil
}

// Exists reports whether a strand.json is present in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
