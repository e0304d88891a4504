// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/nyale/codec"
	"github.com/katalvlaran/nyale/yale"
)

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level       string `yaml:"level"`
	Encoding    string `yaml:"encoding"`
	Development bool   `yaml:"development"`
}

// Config is the on-disk configuration of the CLI.
//
//	log:
//	  level: ${NYALE_LOG_LEVEL}
//	  encoding: console
//	compression: zstd
//	growth_factor: 2
//	memory_limit: 67108864
//	explicit_zeros: false
type Config struct {
	Log           LogConfig `yaml:"log"`
	Compression   string    `yaml:"compression"`
	GrowthFactor  float64   `yaml:"growth_factor"`
	MemoryLimit   int       `yaml:"memory_limit"` // bytes, 0 = unlimited
	ExplicitZeros bool      `yaml:"explicit_zeros"`
}

var errInvalidConfig = errors.New("nyale: invalid config")

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Log:          LogConfig{Level: "warn", Encoding: "console"},
		Compression:  codec.Zstd.String(),
		GrowthFactor: yale.DefaultGrowthFactor,
	}
}

// LoadConfig reads a YAML file over the defaults. ${VAR} references are
// replaced with environment values before parsing.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err = yaml.Unmarshal([]byte(substituteEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the library would panic on.
func (c Config) Validate() error {
	if _, err := codec.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("%w: %v", errInvalidConfig, err)
	}
	if c.GrowthFactor != 0 && (c.GrowthFactor <= 1 || math.IsInf(c.GrowthFactor, 0) || math.IsNaN(c.GrowthFactor)) {
		return fmt.Errorf("%w: growth_factor %v must be > 1", errInvalidConfig, c.GrowthFactor)
	}
	if c.MemoryLimit < 0 {
		return fmt.Errorf("%w: memory_limit %d is negative", errInvalidConfig, c.MemoryLimit)
	}
	switch c.Log.Encoding {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log encoding %q", errInvalidConfig, c.Log.Encoding)
	}
	return nil
}

// StorageOptions translates the config into storage options. A budget is
// returned when a memory limit is set, so callers can report usage.
func (c Config) StorageOptions() ([]yale.Option, *yale.Budget) {
	var (
		opts   []yale.Option
		budget *yale.Budget
	)
	if c.GrowthFactor != 0 {
		opts = append(opts, yale.WithGrowthFactor(c.GrowthFactor))
	}
	if c.MemoryLimit > 0 {
		budget = yale.NewBudget(c.MemoryLimit)
		opts = append(opts, yale.WithAllocator(budget))
	}
	if c.ExplicitZeros {
		opts = append(opts, yale.WithExplicitZeros())
	}
	return opts, budget
}

// substituteEnv replaces every ${NAME} with the value of NAME (empty when
// unset). An unterminated reference is left as is.
func substituteEnv(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(content[start:], '}')
		if end < 0 {
			break
		}
		end += start
		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
