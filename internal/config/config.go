// Package config loads the optional user configuration for k and kctx.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultNamespace is used when neither the config file nor the environment
// names one.
const DefaultNamespace = "default"

// Error reports a config file that exists but cannot be used.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config is the user configuration. All keys are optional; absent keys keep
// their defaults. Read-only after load.
type Config struct {
	DefaultNamespace string            `yaml:"default_namespace"`
	Contexts         map[string]string `yaml:"contexts"`
	Services         map[string]string `yaml:"services"`
}

func defaults() *Config {
	return &Config{
		DefaultNamespace: DefaultNamespace,
		Contexts:         map[string]string{},
		Services:         map[string]string{},
	}
}

// DefaultPath returns the canonical config location, $HOME/.ktool/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ktool", "config.yaml")
}

// Load reads the config file at path. A missing file is not an error: the
// defaults are returned. A file that exists but is not the expected mapping
// structure is an *Error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults(), nil
		}
		return nil, &Error{Path: path, Err: err}
	}

	cfg := defaults()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &Error{Path: path, Err: err}
	}

	// Partial files merge over the defaults field by field.
	if cfg.DefaultNamespace == "" {
		cfg.DefaultNamespace = DefaultNamespace
	}
	if cfg.Contexts == nil {
		cfg.Contexts = map[string]string{}
	}
	if cfg.Services == nil {
		cfg.Services = map[string]string{}
	}
	return cfg, nil
}

// Resolve loads the user config honoring the environment: KTOOL_CONFIG
// overrides the config path and KTOOL_NAMESPACE overrides the default
// namespace.
func Resolve() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ktool")
	v.AutomaticEnv()

	path := v.GetString("config")
	if path == "" {
		path = DefaultPath()
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if ns := v.GetString("namespace"); ns != "" {
		cfg.DefaultNamespace = ns
	}
	return cfg, nil
}
