// Package config loads the smartcube YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/smartcube"
)

// Config is the on-disk configuration. Zero values are filled from Default.
type Config struct {
	// Home is the display pose of a freshly calibrated cube, Euler XYZ in
	// degrees.
	Home        Euler         `yaml:"home"`
	ScanTimeout time.Duration `yaml:"scan_timeout"`
	LogLevel    string        `yaml:"log_level"`
	MoveHistory int           `yaml:"move_history"`

	Device DeviceConfig `yaml:"device"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	Stream StreamConfig `yaml:"stream"`
}

// Euler angles in degrees.
type Euler struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type DeviceConfig struct {
	// Address of the last connected cube, reused when none is given.
	Address   string `yaml:"address,omitempty"`
	AxisRemap bool   `yaml:"axis_remap,omitempty"`
}

// MQTTConfig is disabled when Broker is empty.
type MQTTConfig struct {
	Broker   string `yaml:"broker,omitempty"`
	ClientID string `yaml:"client_id,omitempty"`
	Prefix   string `yaml:"prefix"`
	QoS      byte   `yaml:"qos"`
	Retain   bool   `yaml:"retain"`
}

// StreamConfig is disabled when Listen is empty.
type StreamConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Home:        Euler{X: 15, Y: -20},
		ScanTimeout: 10 * time.Second,
		LogLevel:    "info",
		MoveHistory: 100,
		MQTT:        MQTTConfig{Prefix: "smartcube"},
	}
}

// DefaultPath returns ~/.smartcube/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".smartcube", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.ScanTimeout <= 0 {
		return fmt.Errorf("scan_timeout must be positive, got %s", c.ScanTimeout)
	}
	if c.MoveHistory < 0 {
		return fmt.Errorf("move_history must not be negative")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// HomeOrientation converts Home to a quaternion.
func (c *Config) HomeOrientation() smartcube.Quaternion {
	return smartcube.FromEulerDegrees(c.Home.X, c.Home.Y, c.Home.Z)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
	return l, nil
}
