// Package config handles configuration loading for worksheetz.
// It supports an XDG config file and WORKSHEETZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/worksheetz/internal/validate"
)

// EnvPrefix is prepended to every environment override, e.g.
// WORKSHEETZ_SERVER_ADDR for server.addr.
const EnvPrefix = "WORKSHEETZ"

// Config holds all configuration for worksheetz.
type Config struct {
	// DB is the run log path. Empty means the default data directory.
	DB       string         `mapstructure:"db"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Server   ServerConfig   `mapstructure:"server"`
	Engine   EngineSettings `mapstructure:"engine"`
}

// DefaultsConfig holds the pedagogical context used when neither a flag nor
// the batch document supplies one.
type DefaultsConfig struct {
	Subject string `mapstructure:"subject"`
	Grade   int    `mapstructure:"grade"` // 0 means no default
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// EngineSettings overrides validation thresholds. Zero values keep the
// engine defaults.
type EngineSettings struct {
	MinQuestionLength    int `mapstructure:"min_question_length"`
	MinInstructionLength int `mapstructure:"min_instruction_length"`

	// NumberCeilings is keyed by grade. Grades not listed keep their
	// default ceiling.
	NumberCeilings map[string]int64 `mapstructure:"number_ceilings"`
}

// Load reads the user config file if present and applies environment
// overrides. Precedence (highest to lowest):
// 1. Environment variables (WORKSHEETZ_*)
// 2. User config ($XDG_CONFIG_HOME/worksheetz/config.yaml)
// 3. Built-in defaults
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}
	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file. Environment
// overrides still apply.
func LoadFromPath(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return unmarshal(v)
}

// UserConfigPath returns the path of the user config file.
func UserConfigPath() string {
	return filepath.Join(userConfigDir(), "config.yaml")
}

// Default returns a Config with default values.
func Default() *Config {
	def := validate.DefaultConfig()
	return &Config{
		Defaults: DefaultsConfig{Subject: string(validate.SubjectMath)},
		Server:   ServerConfig{Addr: ":8080"},
		Engine: EngineSettings{
			MinQuestionLength:    def.MinQuestionLength,
			MinInstructionLength: def.MinInstructionLength,
		},
	}
}

// EngineConfig overlays the engine settings on validate.DefaultConfig and
// checks the result.
func (c *Config) EngineConfig() (validate.Config, error) {
	out := validate.DefaultConfig()
	if c.Engine.MinQuestionLength != 0 {
		out.MinQuestionLength = c.Engine.MinQuestionLength
	}
	if c.Engine.MinInstructionLength != 0 {
		out.MinInstructionLength = c.Engine.MinInstructionLength
	}
	for key, ceil := range c.Engine.NumberCeilings {
		grade, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || grade < validate.MinGrade || grade > validate.MaxGrade {
			return validate.Config{}, fmt.Errorf("engine.number_ceilings: invalid grade %q", key)
		}
		out.NumberCeilings[grade] = ceil
	}
	if err := out.Validate(); err != nil {
		return validate.Config{}, err
	}
	return out, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// setDefaults configures default values. Every scalar key needs one so
// that AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("db", d.DB)
	v.SetDefault("defaults.subject", d.Defaults.Subject)
	v.SetDefault("defaults.grade", d.Defaults.Grade)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("engine.min_question_length", d.Engine.MinQuestionLength)
	v.SetDefault("engine.min_instruction_length", d.Engine.MinInstructionLength)
}

// userConfigDir returns the XDG config directory for worksheetz.
func userConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "worksheetz")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "worksheetz")
	}
	return filepath.Join(home, ".config", "worksheetz")
}
