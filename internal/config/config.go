// Package config loads the engine's ambient settings: where table
// files live, how big the buffer pool is, and which replacement policy
// it runs.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/riverdb/recordstore/internal/bufpool"
)

// Config is the engine's top-level configuration.
type Config struct {
	Storage struct {
		// DataDir holds one page file per table, named "<table>.tbl".
		DataDir string `mapstructure:"data_dir"`
	} `mapstructure:"storage"`
	BufferPool struct {
		Capacity int    `mapstructure:"capacity"`
		Policy   string `mapstructure:"policy"` // "fifo" | "lru" | "clock"
	} `mapstructure:"buffer_pool"`
}

const (
	PolicyFIFO  = "fifo"
	PolicyLRU   = "lru"
	PolicyClock = "clock"
)

// defaults applied before Load's file is merged in.
func defaults() Config {
	var c Config
	c.Storage.DataDir = "."
	c.BufferPool.Capacity = 16
	c.BufferPool.Policy = PolicyFIFO
	return c
}

// Load reads a YAML config file at path and unmarshals it into a
// Config, defaults first.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	cfg := defaults()
	v.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	v.SetDefault("buffer_pool.capacity", cfg.BufferPool.Capacity)
	v.SetDefault("buffer_pool.policy", cfg.BufferPool.Policy)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if cfg.BufferPool.Capacity <= 0 {
		return nil, fmt.Errorf("config: buffer_pool.capacity must be > 0, got %d", cfg.BufferPool.Capacity)
	}
	if _, err := bufpool.NewPolicyByName(cfg.BufferPool.Policy); err != nil {
		return nil, fmt.Errorf("config: buffer_pool.policy %q: %w", cfg.BufferPool.Policy, err)
	}
	return &cfg, nil
}
