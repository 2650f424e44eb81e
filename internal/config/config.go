// Package config loads the preprocessor's TOML configuration file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the preprocessor's top-level configuration.
type Config struct {
	Font struct {
		KeepHinting bool `toml:"keep_hinting"`
	} `toml:"font"`

	BSAC struct {
		Version      uint32 `toml:"version"`
		PrependHeader bool  `toml:"prepend_header"`
	} `toml:"bsac"`

	Bundle struct {
		ArtifactDir string `toml:"artifact_dir"`
		WorkerPoolSize int `toml:"worker_pool_size"`
	} `toml:"bundle"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	var c Config
	c.BSAC.Version = 1
	c.Bundle.WorkerPoolSize = 4
	return c
}

// Load reads and parses a TOML configuration file, starting from
// Default() so unset fields keep their defaults.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
