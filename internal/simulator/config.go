package simulator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thisdougb/fleetcheck/internal/config"
)

// Server is one roster entry.
type Server struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

// Config holds everything the simulator needs. Nothing is read from
// package state once a Config has been built.
type Config struct {
	Interval           time.Duration `yaml:"interval"`
	CPUWarnThreshold   int           `yaml:"cpu_warn_threshold"`
	DiskWarnThreshold  int           `yaml:"disk_warn_threshold"`
	DefaultEnvironment string        `yaml:"default_environment"`
	Servers            []Server      `yaml:"servers"`
}

// DefaultConfig returns the stock five server roster with thresholds and
// interval taken from the environment. auth02 has no environment and falls
// back to the default.
func DefaultConfig() Config {
	return Config{
		Interval:           config.DurationValue("FLEET_CHECK_INTERVAL"),
		CPUWarnThreshold:   config.IntValue("FLEET_CPU_WARN_THRESHOLD"),
		DiskWarnThreshold:  config.IntValue("FLEET_DISK_WARN_THRESHOLD"),
		DefaultEnvironment: "dev",
		Servers: []Server{
			{Name: "web01", Environment: "prod"},
			{Name: "db01", Environment: "prod"},
			{Name: "cache01", Environment: "dev"},
			{Name: "auth01", Environment: "stage"},
			{Name: "auth02"},
		},
	}
}

// LoadConfig reads a YAML roster file over the defaults. Fields missing
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read roster: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse roster: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config can drive a simulation.
func (c Config) Validate() error {
	if len(c.Servers) == 0 {
		return fmt.Errorf("roster has no servers")
	}
	for i, s := range c.Servers {
		if s.Name == "" {
			return fmt.Errorf("roster entry %d has no name", i)
		}
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.DefaultEnvironment == "" {
		return fmt.Errorf("default environment is empty")
	}
	return nil
}

// EnvironmentOf returns the configured environment for a server.
func (c Config) EnvironmentOf(s Server) string {
	if s.Environment == "" {
		return c.DefaultEnvironment
	}
	return s.Environment
}
