package emulator

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the machine parameters of an emulator.
type Config struct {
	// CoreSize is the number of words of core. Rounded up to 16.
	CoreSize uint `json:"core_size"`

	// Debug fills the core with 0xFFFF and enforces StepBudget.
	Debug bool `json:"debug"`

	// StepBudget is the maximum instruction count in debug mode.
	// 0 is unlimited.
	StepBudget int `json:"step_budget"`

	// SignedOffset treats the inline offset as two's complement.
	SignedOffset bool `json:"signed_offset"`

	// Globals is the size of the global variable stack region.
	Globals int `json:"globals"`

	// Frames is the size of the call stack region.
	Frames int `json:"frames"`

	// Verbose enables logging of every step.
	Verbose bool `json:"verbose"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		CoreSize:   1024,
		Debug:      true,
		StepBudget: 10000,
		Globals:    128,
		Frames:     128,
	}
}

// LoadConfig reads a JSON configuration file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the machine cannot use.
func (c *Config) Validate() error {
	if c.StepBudget < 0 {
		return fmt.Errorf("step_budget must be >= 0, got %d", c.StepBudget)
	}
	if c.Globals < 0 || c.Frames < 0 {
		return fmt.Errorf("globals and frames must be >= 0, got %d and %d", c.Globals, c.Frames)
	}
	return nil
}
