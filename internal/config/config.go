package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides DefaultPath.
const (
	EnvPath     = "TICKBENCH_CONFIG"
	DefaultPath = "config/tickbench.toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Logging    LoggingConfig    `toml:"logging"`
	Database   DatabaseConfig   `toml:"database"`
	Profile    ProfileConfig    `toml:"profile"`
}

type SimulationConfig struct {
	EntityCount  int     `toml:"entity_count"`
	Ticks        int     `toml:"ticks"`
	Workers      int     `toml:"workers"` // <= 0 means GOMAXPROCS
	Mode         string  `toml:"mode"`    // "sequential", "parallel" or "both"
	RespawnDelay int64   `toml:"respawn_delay"`
	WorldWidth   float64 `toml:"world_width"`   // 0 keeps the role table's bounds
	WorldHeight  float64 `toml:"world_height"`  // 0 keeps the role table's bounds
	ScratchLimit int     `toml:"scratch_limit"` // <= 0 is unbounded
	RolesFile    string  `toml:"roles_file"`    // empty uses the embedded table
	ScriptsDir   string  `toml:"scripts_dir"`   // empty disables Lua overrides
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables run records
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu" or "mem"
	Path string `toml:"path"`
}

// Run modes.
const (
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
	ModeBoth       = "both"
)

// Path resolves the config file location from the environment.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads path over the defaults. A missing file at DefaultPath is not an
// error; any other path must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	s := c.Simulation
	switch s.Mode {
	case ModeSequential, ModeParallel, ModeBoth:
	default:
		return fmt.Errorf("simulation.mode %q: want sequential, parallel or both", s.Mode)
	}
	if s.EntityCount < 0 {
		return fmt.Errorf("simulation.entity_count must not be negative")
	}
	if s.Ticks < 0 {
		return fmt.Errorf("simulation.ticks must not be negative")
	}
	if s.WorldWidth < 0 || s.WorldHeight < 0 {
		return fmt.Errorf("simulation world bounds must not be negative")
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("profile.mode %q: want cpu, mem or empty", c.Profile.Mode)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			EntityCount:  1000,
			Ticks:        1000,
			Workers:      0,
			Mode:         ModeBoth,
			RespawnDelay: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}
