// Package config holds the engine's runtime configuration with
// compiled-in defaults and optional YAML overrides.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the compiled-in configuration with optional overrides.
type Config struct {
	Scan  ScanConfig  `yaml:"scan"`
	Zone  ZoneConfig  `yaml:"zone"`
	Patch PatchConfig `yaml:"patch"`
	Save  SaveConfig  `yaml:"save"`
}

// ScanConfig configures the structural scanner.
type ScanConfig struct {
	// BufferSize is the scanner read buffer in bytes.
	BufferSize int `yaml:"bufferSize"`
}

// ZoneConfig configures zone extraction.
type ZoneConfig struct {
	// ContextLines surround the finding line in an extracted zone.
	ContextLines int `yaml:"contextLines"`
	// ByteBudget bounds offset-addressed excerpts.
	ByteBudget int `yaml:"byteBudget"`
}

// PatchConfig configures patch recording and fragment patching.
type PatchConfig struct {
	// StateDir persists pending patch sets across restarts. Empty
	// keeps patches in memory only.
	StateDir string `yaml:"stateDir"`
	// StrictCheck gates fragment patches on a full parse instead of
	// the tag-balance heuristic.
	StrictCheck bool `yaml:"strictCheck"`
}

// SaveConfig configures patch application.
type SaveConfig struct {
	// Backup keeps a .backup copy of pre-save content.
	Backup bool `yaml:"backup"`
}

// Default returns the compiled-in defaults.
func Default() Config {
	return Config{
		Scan:  ScanConfig{BufferSize: 64 * 1024},
		Zone:  ZoneConfig{ContextLines: 3, ByteBudget: 4096},
		Patch: PatchConfig{},
		Save:  SaveConfig{Backup: true},
	}
}

// Load reads a YAML config file over the defaults. Fields absent from
// the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %s", path)
	}
	if cfg.Scan.BufferSize <= 0 {
		cfg.Scan.BufferSize = Default().Scan.BufferSize
	}
	if cfg.Zone.ContextLines < 0 {
		cfg.Zone.ContextLines = Default().Zone.ContextLines
	}
	if cfg.Zone.ByteBudget <= 0 {
		cfg.Zone.ByteBudget = Default().Zone.ByteBudget
	}
	return cfg, nil
}
