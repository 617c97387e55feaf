package sh

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config holds the engine's tunables. The zero value is not valid; build one
// with DefaultConfig or LoadConfig.
type Config struct {
	// SelfExecutable is the path re-exec'd to obtain a fresh OS process for
	// pipeline stages, background jobs, and subshells. It defaults
	// to the running binary's own path.
	SelfExecutable string `yaml:"self_executable" validate:"required"`

	// EnableReaper turns on collection of finished background ("&") jobs
	// at the top of every Interpret call. Engines embedded as a library
	// inside a larger process that already reaps its own children should
	// set this false.
	EnableReaper bool `yaml:"enable_reaper"`

	// ReaperPollLimit bounds how many exited children a single reap pass
	// collects before yielding, so a fork bomb can't starve the caller.
	ReaperPollLimit int `yaml:"reaper_poll_limit" validate:"gte=1,lte=4096"`

	// Debug enables verbose engine logging through LogFn.
	Debug bool `yaml:"debug"`
}

var configValidate = validator.New()

// DefaultConfig returns a Config usable as-is: reaper on, a sane poll limit,
// and SelfExecutable resolved from /proc/self/exe (falling back to
// os.Args[0]).
func DefaultConfig() *Config {
	return &Config{
		SelfExecutable:  discoverSelfExecutable(),
		EnableReaper:    true,
		ReaperPollLimit: 256,
	}
}

// LoadConfig reads a YAML config file from fs at path, starting from
// DefaultConfig's values and overlaying whatever the file sets, then
// validates the result.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("sh: reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("sh: parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sh: invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the struct tags above.
func (c *Config) Validate() error {
	return configValidate.Struct(c)
}
