// Package config loads and validates application configuration from YAML files
// and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pitabwire/sonoctl/model"
)

// Config is the root application configuration.
type Config struct {
	Device        DeviceConfig                 `yaml:"device"`
	Definitions   DefinitionsConfig            `yaml:"definitions"`
	Services      map[string]model.ServiceInfo `yaml:"services"`
	Discovery     DiscoveryConfig              `yaml:"discovery"`
	Observability ObservabilityConfig          `yaml:"observability"`
}

// DeviceConfig describes how target devices are reached.
type DeviceConfig struct {
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefinitionsConfig describes where to find operation definition files beyond
// the built-in catalog.
type DefinitionsConfig struct {
	Directories []string `yaml:"directories"`
}

// DiscoveryConfig describes device discovery settings.
type DiscoveryConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// ObservabilityConfig describes logging and tracing settings.
type ObservabilityConfig struct {
	LogLevel string        `yaml:"log_level"`
	Tracing  TracingConfig `yaml:"tracing"`
}

// TracingConfig describes distributed tracing settings.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Device: DeviceConfig{
			Port:    1400,
			Timeout: 5 * time.Second,
		},
		Discovery: DiscoveryConfig{
			Timeout: 3 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
			Tracing: TracingConfig{
				Exporter:     "otlp",
				SamplingRate: 0.1,
			},
		},
	}
}

// Load reads a YAML config file, applies environment variable overrides,
// and validates required fields. A missing file is not an error: defaults
// plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Device.Port < 1 || c.Device.Port > 65535 {
		errs = append(errs, "device.port must be between 1 and 65535")
	}
	if c.Device.Timeout <= 0 {
		errs = append(errs, "device.timeout must be positive")
	}
	if c.Discovery.Timeout <= 0 {
		errs = append(errs, "discovery.timeout must be positive")
	}
	for name, svc := range c.Services {
		if svc.Endpoint == "" {
			errs = append(errs, fmt.Sprintf("services.%s.endpoint is required", name))
		}
		if svc.ServiceURI == "" {
			errs = append(errs, fmt.Sprintf("services.%s.service_uri is required", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// applyEnvOverrides reads SONOCTL_* environment variables and overrides
// config values. Only the most commonly overridden fields are supported.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SONOCTL_DEVICE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Device.Port = port
		}
	}
	if v := os.Getenv("SONOCTL_DEVICE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Device.Timeout = d
		}
	}
	if v := os.Getenv("SONOCTL_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("SONOCTL_TRACING_ENABLED"); v != "" {
		cfg.Observability.Tracing.Enabled = v == "true" || v == "1"
	}
}
