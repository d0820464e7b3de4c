package predecode

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the build-time parameters of the stage. They are fixed when
// the Stage is constructed and never change at runtime.
type Config struct {
	// NumRegs is the architectural register count. Default: 16.
	NumRegs int `json:"num_regs"`

	// NumALUOps is the number of ALU operation encodings. Default: 16.
	NumALUOps int `json:"num_alu_ops"`

	// NumShiftOps is the number of shift operation encodings. Default: 4.
	NumShiftOps int `json:"num_shift_ops"`

	// NumPhysRegs is the physical register count backing the architectural
	// set across banked modes. Default: 31.
	NumPhysRegs int `json:"num_phys_regs"`

	// EnableCoprocessor selects the coprocessor interceptor. When false the
	// interceptor is an identity pass-through with the dispatch port pinned
	// to zero.
	EnableCoprocessor bool `json:"enable_coprocessor"`

	// EnableThumb selects the compressed-instruction expander. When false
	// the expander is an identity pass-through.
	EnableThumb bool `json:"enable_thumb"`

	// MultiplyBeats is the long-multiply occupancy in cycles. Default: 4.
	MultiplyBeats int `json:"multiply_beats"`
}

// DefaultConfig returns the ARMv4T-shaped defaults with both optional
// sub-decoders enabled.
func DefaultConfig() *Config {
	return &Config{
		NumRegs:           16,
		NumALUOps:         16,
		NumShiftOps:       4,
		NumPhysRegs:       31,
		EnableCoprocessor: true,
		EnableThumb:       true,
		MultiplyBeats:     4,
	}
}

// LoadConfig loads a Config from a JSON file. Fields absent from the file
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that all structural parameters are positive.
func (c *Config) Validate() error {
	if c.NumRegs <= 0 {
		return fmt.Errorf("num_regs must be > 0")
	}
	if c.NumALUOps <= 0 {
		return fmt.Errorf("num_alu_ops must be > 0")
	}
	if c.NumShiftOps <= 0 {
		return fmt.Errorf("num_shift_ops must be > 0")
	}
	if c.NumPhysRegs < c.NumRegs {
		return fmt.Errorf("num_phys_regs must be >= num_regs")
	}
	if c.MultiplyBeats <= 0 {
		return fmt.Errorf("multiply_beats must be > 0")
	}
	return nil
}
