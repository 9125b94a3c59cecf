// Package config provides configuration management for the data stream
// administration CLI. Connection settings come from an optional YAML file
// merged with command-line flag overrides, flags winning.
package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the merged configuration from file and flags
type Config struct {
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	// Tunnel, when set, makes the tool connect through a Kubernetes
	// port-forward instead of a direct URL
	Tunnel *TunnelConfig `yaml:"tunnel,omitempty"`
}

// ElasticsearchConfig holds the cluster connection settings
type ElasticsearchConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password" validate:"required"`
	// InsecureSkipTLSVerify disables certificate verification (off by default)
	InsecureSkipTLSVerify bool `yaml:"insecureSkipTLSVerify"`
	// TimeoutSeconds bounds each request; 0 means no client-side timeout
	TimeoutSeconds int `yaml:"timeoutSeconds" validate:"min=0"`
	// MaxRetries enables transport retries on gateway errors; 0 disables
	MaxRetries int `yaml:"maxRetries" validate:"min=0"`
}

// TunnelConfig holds the Kubernetes port-forward settings
type TunnelConfig struct {
	Namespace  string `yaml:"namespace" validate:"required"`
	Service    string `yaml:"service" validate:"required"`
	RemotePort int    `yaml:"remotePort" validate:"required,min=1,max=65535"`
	LocalPort  int    `yaml:"localPort" validate:"required,min=1,max=65535"`
	Kubeconfig string `yaml:"kubeconfig"`
}

// LoadConfig loads the optional YAML configuration file and merges the
// flag-derived overrides on top (non-zero override values win). The merged
// result is validated before any network activity takes place.
func LoadConfig(path string, overrides Config) (*Config, error) {
	config := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
		}
	}

	if err := mergo.Merge(config, overrides, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge flag overrides: %w", err)
	}

	if config.Tunnel == nil && config.Elasticsearch.URL == "" {
		return nil, fmt.Errorf("either --url or a tunnel (--namespace and --service) must be configured")
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

type Context struct {
	Config *CLIConfig
}

// CLIConfig holds the flag-bound CLI state
type CLIConfig struct {
	ConfigFile string

	URL                   string
	Username              string
	Password              string
	InsecureSkipTLSVerify bool
	TimeoutSeconds        int
	MaxRetries            int

	Namespace  string
	Service    string
	RemotePort int
	LocalPort  int
	Kubeconfig string

	Debug        bool
	Quiet        bool
	OutputFormat string // table, json
}

func NewContext() *Context {
	return &Context{
		Config: &CLIConfig{},
	}
}

// Overrides converts the flag-bound state into a Config suitable for
// merging over the file configuration
func (c *CLIConfig) Overrides() Config {
	overrides := Config{
		Elasticsearch: ElasticsearchConfig{
			URL:                   c.URL,
			Username:              c.Username,
			Password:              c.Password,
			InsecureSkipTLSVerify: c.InsecureSkipTLSVerify,
			TimeoutSeconds:        c.TimeoutSeconds,
			MaxRetries:            c.MaxRetries,
		},
	}

	if c.Namespace != "" || c.Service != "" {
		overrides.Tunnel = &TunnelConfig{
			Namespace:  c.Namespace,
			Service:    c.Service,
			RemotePort: c.RemotePort,
			LocalPort:  c.LocalPort,
			Kubeconfig: c.Kubeconfig,
		}
	}

	return overrides
}
