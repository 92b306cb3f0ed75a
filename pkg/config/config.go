// Package config loads rdfgraph settings from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"github.com/dd0wney/cluso-rdfgraph/pkg/validation"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory
const DefaultFile = "rdfgraph.yaml"

// Config is the complete rdfgraph configuration
type Config struct {
	Log LogConfig `yaml:"log"`
	// StandardNamespaces prepends rdf, rdfs, owl, xsd and friends to Namespaces
	StandardNamespaces bool          `yaml:"standard_namespaces"`
	Namespaces         Namespaces    `yaml:"namespaces"`
	Convert            ConvertConfig `yaml:"convert"`
	View               ViewConfig    `yaml:"view"`
	Focus              FocusConfig   `yaml:"focus"`
	Server             ServerConfig  `yaml:"server"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level string `yaml:"level"`
}

// ConvertConfig configures the converter
type ConvertConfig struct {
	// LinkAttributes keeps resource-valued predicates as node attributes
	// as well as edges
	LinkAttributes bool `yaml:"link_attributes"`
}

// ViewConfig configures the visibility filter
type ViewConfig struct {
	// AllowLargeGraphs lets graphs with more types than palette colours render,
	// with the excess types sharing white.
	AllowLargeGraphs bool `yaml:"allow_large_graphs"`
}

// FocusConfig configures multi-seed focus extraction
type FocusConfig struct {
	Workers int `yaml:"workers"`
}

// ServerConfig configures the HTTP host
type ServerConfig struct {
	Addr         string        `yaml:"addr" validate:"required,hostname_port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Log:                LogConfig{Level: "info"},
		StandardNamespaces: true,
		Focus:              FocusConfig{Workers: 4},
		Server: ServerConfig{
			Addr:         "localhost:8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			CORSOrigins:  []string{"*"},
		},
	}
}

// Parse decodes YAML on top of the defaults
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads and parses a YAML config file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load reads path, or DefaultFile when path is empty. A missing DefaultFile
// yields the defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	cfg, err := LoadFromFile(DefaultFile)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// SaveToFile writes the configuration as YAML
func (c *Config) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	c.Log.Level = validation.DefaultOr(c.Log.Level, def.Log.Level)
	c.Focus.Workers = validation.DefaultOrInt(c.Focus.Workers, def.Focus.Workers)
	c.Server.Addr = validation.DefaultOr(c.Server.Addr, def.Server.Addr)
	c.Server.ReadTimeout = validation.DefaultOrDuration(c.Server.ReadTimeout, def.Server.ReadTimeout)
	c.Server.WriteTimeout = validation.DefaultOrDuration(c.Server.WriteTimeout, def.Server.WriteTimeout)
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("Config").
		OneOf("log.level", c.Log.Level, []string{"debug", "info", "warn", "warning", "error"}).
		RangeInt("focus.workers", c.Focus.Workers, 1, 256).
		Struct("server", &c.Server).
		RangeDuration("server.read_timeout", c.Server.ReadTimeout, time.Second, 10*time.Minute).
		RangeDuration("server.write_timeout", c.Server.WriteTimeout, time.Second, 10*time.Minute)

	seen := make(map[string]bool, len(c.Namespaces))
	for _, b := range c.Namespaces {
		field := "namespaces." + b.Prefix
		cv.Prefix(field, b.Prefix).NamespaceIRI(field, b.Namespace)
		if seen[b.Prefix] {
			cv.Custom(field, func() error { return fmt.Errorf("prefix %q bound twice", b.Prefix) })
		}
		seen[b.Prefix] = true
	}
	return cv.Validate()
}

// Table builds the namespace table: the standard vocabularies when enabled,
// then the configured bindings in file order.
func (c *Config) Table() *namespace.Table {
	configured := namespace.NewTable(c.Namespaces...)
	if !c.StandardNamespaces {
		return configured
	}
	return namespace.StandardTable().Merge(configured)
}
