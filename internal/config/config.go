package config

import (
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Config holds all railspect configuration.
type Config struct {
	Thresholds Thresholds `yaml:"thresholds"`
	Exclude    Exclude    `yaml:"exclude"`
	Defaults   Defaults   `yaml:"defaults"`
}

// Thresholds control detection sensitivity.
type Thresholds struct {
	PoolMin int `yaml:"pool_min"` // pool sizes below this warn
	PoolMax int `yaml:"pool_max"` // pool sizes above this are flagged as info
}

// Exclude lists tables and finding types to skip during analysis.
type Exclude struct {
	Tables   []string `yaml:"tables"`
	Findings []string `yaml:"findings"`
}

// Defaults holds default CLI flag values.
type Defaults struct {
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			PoolMin: 5,
			PoolMax: 20,
		},
		Defaults: Defaults{
			Format: "text",
		},
	}
}

// Load reads configuration from .railspect.yml in the given directory,
// falling back to ~/.railspect.yml. Returns DefaultConfig if no file found.
func Load(dir string) (Config, error) {
	cfg := DefaultConfig()

	paths := []string{filepath.Join(dir, ".railspect.yml")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".railspect.yml"))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	return cfg, nil
}
