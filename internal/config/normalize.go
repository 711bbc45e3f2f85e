package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultBaseURL = "https://opensquawk.de"

	defaultTickIntervalMs     = 100
	defaultTimeoutMs          = 10000
	defaultSendIntervalMs     = 5000
	defaultRetryIntervalMs    = 2000
	defaultPairPollIntervalMs = 10000
	defaultStatePath          = "bridge-config.json"
)

// Normalize applies post-validation normalization and defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Bridge.Host == "" {
		cfg.Bridge.Host = "synthetic"
	}
	if cfg.Bridge.TickIntervalMs == 0 {
		cfg.Bridge.TickIntervalMs = defaultTickIntervalMs
	}

	u := &cfg.Uplink
	if u.Enabled == nil {
		enabled := true
		u.Enabled = &enabled
	}
	u.BaseURL = strings.TrimRight(u.BaseURL, "/")
	if u.BaseURL == "" {
		u.BaseURL = DefaultBaseURL
	}
	if u.MeURL == "" {
		u.MeURL = u.BaseURL + "/api/bridge/me"
	}
	if u.TelemetryURL == "" {
		u.TelemetryURL = u.BaseURL + "/api/bridge/data"
	}
	if u.StatePath == "" {
		u.StatePath = defaultStatePath
	}
	if u.TimeoutMs == 0 {
		u.TimeoutMs = defaultTimeoutMs
	}
	if u.SendIntervalMs == 0 {
		u.SendIntervalMs = defaultSendIntervalMs
	}
	if u.RetryIntervalMs == 0 {
		u.RetryIntervalMs = defaultRetryIntervalMs
	}
	if u.PairPollIntervalMs == 0 {
		u.PairPollIntervalMs = defaultPairPollIntervalMs
	}
}
