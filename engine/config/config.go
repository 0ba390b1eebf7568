// Package config reads the engine configuration from TOML.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/geometry"
)

type Config struct {
	Engine EngineConfig `toml:"engine"`
	Assets AssetsConfig `toml:"assets"`
	Scene  SceneConfig  `toml:"scene"`
}

type EngineConfig struct {
	// TickRate is the number of ticks per second.
	TickRate int `toml:"tick_rate"`
	// MaxTicks stops the run loop after that many ticks. Zero runs until
	// interrupted.
	MaxTicks uint64 `toml:"max_ticks"`
	// Strict stops the run loop on scene data integrity errors.
	Strict   bool   `toml:"strict"`
	LogLevel string `toml:"log_level"`
}

type AssetsConfig struct {
	Root         string `toml:"root"`
	Watch        bool   `toml:"watch"`
	Workers      int    `toml:"workers"`
	QueueSize    int    `toml:"queue_size"`
	MeshRevision string `toml:"mesh_revision"`
}

type SceneConfig struct {
	// Root is the scene spawned at startup, relative to the asset root.
	Root string `toml:"root"`
}

func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			TickRate: 60,
			Strict:   true,
			LogLevel: "info",
		},
		Assets: AssetsConfig{
			Root:         "assets",
			Workers:      4,
			QueueSize:    64,
			MeshRevision: geometry.DefaultRevision.String(),
		},
	}
}

// Load reads path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data on top of the defaults and validates the result.
// Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("engine.tick_rate must be positive, have %d", c.Engine.TickRate)
	}
	if _, err := log.ParseLevel(c.Engine.LogLevel); err != nil {
		return fmt.Errorf("engine.log_level: %w", err)
	}
	if c.Assets.Root == "" {
		return fmt.Errorf("assets.root is required")
	}
	if c.Assets.Workers < 0 {
		return fmt.Errorf("assets.workers must not be negative, have %d", c.Assets.Workers)
	}
	if c.Assets.QueueSize < 0 {
		return fmt.Errorf("assets.queue_size must not be negative, have %d", c.Assets.QueueSize)
	}
	if _, err := geometry.ParseRevision(c.Assets.MeshRevision); err != nil {
		return fmt.Errorf("assets.mesh_revision: %w", err)
	}
	return nil
}

// TickInterval is the wall time between ticks.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Engine.TickRate)
}

func (c *Config) MeshRevision() geometry.Revision {
	rev, _ := geometry.ParseRevision(c.Assets.MeshRevision)
	return rev
}
