// Package config loads the backend and interpreter settings that the
// driver passes into the core compiler (spec §6 "Backend CLI options").
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the compiler configuration.
type Config struct {
	// Backend settings: pluggable register allocator and calling convention.
	Backend struct {
		RegisterAllocator string `toml:"register_allocator"` // spilling | remember
		CallingConvention string `toml:"calling_convention"` // stack | register
	} `toml:"backend"`

	// Interpreter settings.
	Interpreter struct {
		MemoryWords int  `toml:"memory_words"`
		MaxSteps    uint `toml:"max_steps"`
	} `toml:"interpreter"`

	// Optimizer settings.
	Optimizer struct {
		Enabled bool `toml:"enabled"`
	} `toml:"optimizer"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Backend.RegisterAllocator = "spilling"
	cfg.Backend.CallingConvention = "stack"

	cfg.Interpreter.MemoryWords = 1001
	cfg.Interpreter.MaxSteps = 1000000

	cfg.Optimizer.Enabled = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "l0c")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "l0c")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Validate checks that the configuration names known strategies.
func (c *Config) Validate() error {
	switch c.Backend.RegisterAllocator {
	case "spilling", "remember":
	default:
		return fmt.Errorf("unknown register allocator: %s (possible values: spilling, remember)", c.Backend.RegisterAllocator)
	}

	switch c.Backend.CallingConvention {
	case "stack", "register":
	default:
		return fmt.Errorf("unknown calling convention: %s (possible values: stack, register)", c.Backend.CallingConvention)
	}

	if c.Interpreter.MemoryWords <= 0 {
		return fmt.Errorf("interpreter.memory_words must be positive")
	}

	return nil
}
