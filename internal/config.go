// Package internal provides application configuration and the MCP server
// runtime.
package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// LogLevel wraps slog.Level so YAML values like "info" or "debug" decode;
// yaml.v3 does not consult encoding.TextUnmarshaler on its own.
type LogLevel struct {
	slog.Level
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	return l.Level.UnmarshalText([]byte(value.Value))
}

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Vault     VaultConfig       `yaml:"vault"`
	Output    OutputConfig      `yaml:"output"`
	Templates TemplatesConfig   `yaml:"templates"`
	Pack      PackConfig        `yaml:"pack"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Pack.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel LogLevel `yaml:"log_level"`
}

// VaultConfig holds the path to the note vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// OutputConfig holds the directory context packs are written to.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// TemplatesConfig holds an optional note template directory that overrides
// the built-in templates.
type TemplatesConfig struct {
	Path string `yaml:"path"`
}

// PackConfig holds default parameters for context-pack assembly. Each can
// be overridden per invocation.
type PackConfig struct {
	Hops       int `yaml:"hops"`
	RecentDays int `yaml:"recent_days"`
	TopK       int `yaml:"topk"`
	MaxTokens  int `yaml:"max_tokens"`
}

// Validate validates the pack defaults.
func (c *PackConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Hops, validation.Min(0)),
		validation.Field(&c.RecentDays, validation.Min(0)),
		validation.Field(&c.TopK, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxTokens, validation.Required, validation.Min(1)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: LogLevel{slog.LevelInfo},
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		Output: OutputConfig{
			Path: "./logs",
		},
		Pack: PackConfig{
			Hops:       1,
			RecentDays: 30,
			TopK:       10,
			MaxTokens:  8000,
		},
	}
}
