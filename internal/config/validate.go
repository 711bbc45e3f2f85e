package config

import (
	"fmt"
	"net/url"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg.Bridge.TickIntervalMs < 0 {
		return fmt.Errorf("bridge.tick_interval_ms must be >= 0, got %d", cfg.Bridge.TickIntervalMs)
	}
	switch cfg.Bridge.Host {
	case "", "synthetic":
	default:
		return fmt.Errorf("bridge.host %q is not a known adapter", cfg.Bridge.Host)
	}

	u := cfg.Uplink
	for _, iv := range []struct {
		name  string
		value int
	}{
		{"uplink.timeout_ms", u.TimeoutMs},
		{"uplink.send_interval_ms", u.SendIntervalMs},
		{"uplink.retry_interval_ms", u.RetryIntervalMs},
		{"uplink.pair_poll_interval_ms", u.PairPollIntervalMs},
	} {
		if iv.value < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", iv.name, iv.value)
		}
	}

	for _, uv := range []struct {
		name  string
		value string
	}{
		{"uplink.base_url", u.BaseURL},
		{"uplink.me_url", u.MeURL},
		{"uplink.telemetry_url", u.TelemetryURL},
	} {
		if uv.value == "" {
			continue
		}
		parsed, err := url.Parse(uv.value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s: %q is not an absolute URL", uv.name, uv.value)
		}
	}

	return nil
}
