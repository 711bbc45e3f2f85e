package config

import "os"

// ApplyEnv overlays environment variables onto a loaded config.
// File values lose to environment; flags are applied later by the CLI
// and win over both. Called before Validate.
func ApplyEnv(cfg *Config) {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v, ok := os.LookupEnv(key); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	base := cfg.Uplink.BaseURL
	setString(&cfg.Uplink.BaseURL, "SIMBRIDGE_BASE_URL", "BRIDGE_BASE_URL")
	if cfg.Uplink.BaseURL != base {
		// endpoints derive from the new base unless set explicitly below
		cfg.Uplink.MeURL = ""
		cfg.Uplink.TelemetryURL = ""
	}
	setString(&cfg.Uplink.MeURL, "SIMBRIDGE_ME_URL", "BRIDGE_ME_URL")
	// SERVER_URL is the legacy name the original bridge honored first.
	setString(&cfg.Uplink.TelemetryURL, "SERVER_URL", "SIMBRIDGE_TELEMETRY_URL", "BRIDGE_TELEMETRY_URL", "BRIDGE_DATA_URL")
	setString(&cfg.Uplink.AuthToken, "SIMBRIDGE_AUTH_TOKEN", "AUTH_TOKEN")
	setString(&cfg.Uplink.StatePath, "SIMBRIDGE_STATE_PATH")
}
