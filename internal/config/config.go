// Package config loads and checks the daemon configuration.
// Load, then Validate, then Normalize, in that order.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
	Uplink UplinkConfig `yaml:"uplink"`
}

// ---- BRIDGE ----

type BridgeConfig struct {
	// Host selects the simulator adapter. Only "synthetic" ships with
	// the daemon; embedders wire real adapters through the library.
	Host string `yaml:"host"`

	// TickIntervalMs is the scheduler period driving Bridge.Tick.
	TickIntervalMs int `yaml:"tick_interval_ms"`
}

// ---- UPLINK ----

type UplinkConfig struct {
	// Enabled defaults to true when omitted; --no-uplink and an explicit
	// enabled: false are the only ways to switch the uplink off.
	Enabled *bool `yaml:"enabled"`

	BaseURL      string `yaml:"base_url"`
	MeURL        string `yaml:"me_url"`        // derived from base_url when empty
	TelemetryURL string `yaml:"telemetry_url"` // derived from base_url when empty

	// AuthToken is sent as a bearer token in addition to the pairing
	// token header. Optional.
	AuthToken string `yaml:"auth_token"`

	// StatePath is the pairing state file (token persistence).
	StatePath string `yaml:"state_path"`

	TimeoutMs          int `yaml:"timeout_ms"`
	SendIntervalMs     int `yaml:"send_interval_ms"`
	RetryIntervalMs    int `yaml:"retry_interval_ms"`
	PairPollIntervalMs int `yaml:"pair_poll_interval_ms"`
}

// Load reads and decodes one YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration used when no file is given.
// Not yet normalized; the caller layers env and flags before Normalize.
func Default() *Config {
	return &Config{}
}
