// Package config loads the inspector tool's YAML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top level of the YAML file.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Inspector InspectorConfig `yaml:"inspector"`
	Server    ServerConfig    `yaml:"server"`
	Demo      DemoConfig      `yaml:"demo"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type InspectorConfig struct {
	Listen      string `yaml:"listen"`
	Pprof       bool   `yaml:"pprof"`
	SnapshotMax int    `yaml:"snapshot_max"`
}

type ServerConfig struct {
	ObjectLimit int `yaml:"object_limit"`
}

// DemoConfig shapes the buffers the demo client paints.
type DemoConfig struct {
	Width   int32 `yaml:"width"`
	Height  int32 `yaml:"height"`
	Buffers int   `yaml:"buffers"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Inspector: InspectorConfig{
			Listen:      "127.0.0.1:8089",
			SnapshotMax: 256,
		},
		Demo: DemoConfig{
			Width:   256,
			Height:  256,
			Buffers: 2,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Inspector.Listen == "" {
		return fmt.Errorf("inspector.listen is empty")
	}
	if c.Inspector.SnapshotMax <= 0 {
		return fmt.Errorf("inspector.snapshot_max must be positive: %d", c.Inspector.SnapshotMax)
	}
	if c.Server.ObjectLimit < 0 {
		return fmt.Errorf("server.object_limit is negative: %d", c.Server.ObjectLimit)
	}
	if c.Demo.Width <= 0 || c.Demo.Height <= 0 || c.Demo.Buffers < 0 {
		return fmt.Errorf("demo geometry %dx%d x%d is invalid", c.Demo.Width, c.Demo.Height, c.Demo.Buffers)
	}
	return nil
}

// LogLevel returns the parsed log level, info if unparsable.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
