package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Versifine/coinrun/internal/camera"
	"github.com/Versifine/coinrun/internal/pickup"
	"github.com/Versifine/coinrun/internal/telemetry"
	"github.com/Versifine/coinrun/internal/terrain"
	"github.com/Versifine/coinrun/internal/vehicle"
)

type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Vehicle   vehicle.Tuning  `yaml:"vehicle"`
	Camera    camera.Config   `yaml:"camera"`
	Terrain   terrain.Config  `yaml:"terrain"`
	Coins     pickup.Config   `yaml:"coins"`
	Sim       SimConfig       `yaml:"sim"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Console   ConsoleConfig   `yaml:"console"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SimConfig struct {
	FrameRate     float64    `yaml:"frame_rate"`
	FixedStep     float64    `yaml:"fixed_step"`
	MaxFrameTime  float64    `yaml:"max_frame_time"`
	Seed          uint64     `yaml:"seed"`
	RespawnBounds float64    `yaml:"respawn_bounds"`
	Spawn         [2]float64 `yaml:"spawn"`
}

type TelemetryConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Listen   string        `yaml:"listen"`
	Interval time.Duration `yaml:"interval"`
}

type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Vehicle: vehicle.DefaultTuning(),
		Camera:  camera.DefaultConfig(),
		Terrain: terrain.DefaultConfig(),
		Coins:   pickup.DefaultConfig(),
		Sim: SimConfig{
			FrameRate:     60,
			FixedStep:     0.02,
			MaxFrameTime:  1.0 / 3.0,
			Seed:          1,
			RespawnBounds: 500,
		},
		Telemetry: TelemetryConfig{
			Listen:   "127.0.0.1:8765",
			Interval: telemetry.DefaultInterval,
		},
	}
}

// Load reads a YAML file over Default and validates the result. Keys missing
// from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Vehicle.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Camera.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Terrain.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Coins.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Sim.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("sim frame_rate must be > 0, got %v", c.Sim.FrameRate))
	}
	if c.Sim.FixedStep <= 0 {
		errs = append(errs, fmt.Errorf("sim fixed_step must be > 0, got %v", c.Sim.FixedStep))
	}
	if c.Sim.MaxFrameTime < c.Sim.FixedStep {
		errs = append(errs, fmt.Errorf("sim max_frame_time %v below fixed_step %v", c.Sim.MaxFrameTime, c.Sim.FixedStep))
	}
	if c.Sim.RespawnBounds <= 0 {
		errs = append(errs, fmt.Errorf("sim respawn_bounds must be > 0, got %v", c.Sim.RespawnBounds))
	}
	if c.Telemetry.Enabled && c.Telemetry.Listen == "" {
		errs = append(errs, errors.New("telemetry listen address is empty"))
	}
	return errors.Join(errs...)
}
