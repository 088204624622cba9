package runner

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Job describes one emulator-vs-reference validation.
type Job struct {
	Name      string   `yaml:"name"`
	Command   []string `yaml:"command"`   // emulator invocation, argv form; empty = log already written
	Log       string   `yaml:"log"`       // emulator trace path
	Reference string   `yaml:"reference"` // ground-truth trace path
	Strict    bool     `yaml:"strict"`    // compare undocumented-opcode steps too
}

// Config is the YAML file consumed by the run and batch subcommands.
type Config struct {
	Jobs    []Job `yaml:"jobs"`
	Workers int   `yaml:"workers"` // 0 = NumCPU
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Jobs) == 0 {
		return errors.New("no jobs configured")
	}
	for i := range c.Jobs {
		j := &c.Jobs[i]
		if j.Name == "" {
			j.Name = fmt.Sprintf("job-%d", i+1)
		}
		if j.Log == "" {
			return fmt.Errorf("%s: no emulator log path", j.Name)
		}
		if j.Reference == "" {
			return fmt.Errorf("%s: no reference log path", j.Name)
		}
	}
	return nil
}
