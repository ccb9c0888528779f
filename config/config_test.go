package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "spilling", cfg.Backend.RegisterAllocator)
	assert.Equal(t, "stack", cfg.Backend.CallingConvention)
	assert.Equal(t, 1001, cfg.Interpreter.MemoryWords)
	assert.Equal(t, uint(1000000), cfg.Interpreter.MaxSteps)
	assert.True(t, cfg.Optimizer.Enabled)
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	assert.NotEmpty(t, path)
	assert.Equal(t, "config.toml", filepath.Base(path))
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, "spilling", cfg.Backend.RegisterAllocator, "missing file should yield defaults")
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Backend.RegisterAllocator = "remember"
	cfg.Backend.CallingConvention = "register"
	cfg.Interpreter.MaxSteps = 42

	require.NoError(t, cfg.SaveTo(path))

	_, err := os.Stat(path)
	require.NoError(t, err, "expected config file to exist")

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "remember", loaded.Backend.RegisterAllocator)
	assert.Equal(t, uint(42), loaded.Interpreter.MaxSteps)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate(), "default config should be valid")

	cfg.Backend.RegisterAllocator = "bogus"
	assert.Error(t, cfg.Validate(), "unknown register allocator should be rejected")
}
