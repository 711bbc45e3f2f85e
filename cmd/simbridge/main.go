package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/opensquawk/simbridge"
	"github.com/opensquawk/simbridge/internal/config"
	"github.com/opensquawk/simbridge/internal/uplink"
	"github.com/opensquawk/simbridge/simhost"
	"github.com/opensquawk/simbridge/simhost/synth"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	var (
		cfgPath   string
		baseURL   string
		authToken string
		statePath string
		noUplink  bool
		debugLog  bool
	)

	root := &cobra.Command{
		Use:     "simbridge",
		Short:   "Bridge flight simulator telemetry to OpenSquawk and apply remote commands",
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// --------------------
			// Load + validate config (file < env < flags)
			// --------------------

			cfg := config.Default()
			if cfgPath != "" {
				loaded, err := config.Load(cfgPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			config.ApplyEnv(cfg)

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if changed["base-url"] {
				cfg.Uplink.BaseURL = baseURL
				cfg.Uplink.MeURL = ""
				cfg.Uplink.TelemetryURL = ""
			}
			if changed["auth-token"] {
				cfg.Uplink.AuthToken = authToken
			}
			if changed["state-path"] {
				cfg.Uplink.StatePath = statePath
			}
			if noUplink {
				enabled := false
				cfg.Uplink.Enabled = &enabled
			}

			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}
			config.Normalize(cfg)

			if !debugLog {
				log = log.Level(zerolog.InfoLevel)
			}

			return run(cmd.Context(), cfg, log)
		},
	}

	root.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config.yaml")
	root.Flags().StringVar(&baseURL, "base-url", config.DefaultBaseURL, "OpenSquawk base URL")
	root.Flags().StringVar(&authToken, "auth-token", "", "bearer token sent with uplink requests")
	root.Flags().StringVar(&statePath, "state-path", "", "pairing state file")
	root.Flags().BoolVar(&noUplink, "no-uplink", false, "run the bridge without the uplink")
	root.Flags().BoolVar(&debugLog, "debug", false, "verbose logging")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("simbridge exited")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --------------------
	// Host adapter + bridge
	// --------------------

	var host simhost.Host
	switch cfg.Bridge.Host {
	case "synthetic":
		host = synth.New()
		log.Warn().Msg("using the synthetic host; telemetry is not from a real simulator")
	default:
		return fmt.Errorf("no host adapter for %q", cfg.Bridge.Host)
	}

	bridge := &lockedBridge{b: simbridge.New(host, simbridge.WithLogger(log))}
	bridge.ModuleInit()
	defer bridge.ModuleDeinit()

	// --------------------
	// Scheduler: tick the bridge at a fixed period
	// --------------------

	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Bridge.TickIntervalMs) * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				bridge.Tick()
			}
		}
	}()

	// --------------------
	// Uplink loop (optional)
	// --------------------

	if !*cfg.Uplink.Enabled {
		log.Info().Msg("uplink disabled, running bridge only")
		<-ctx.Done()
		return nil
	}

	client := uplink.New(uplink.Config{
		BaseURL:          cfg.Uplink.BaseURL,
		MeURL:            cfg.Uplink.MeURL,
		TelemetryURL:     cfg.Uplink.TelemetryURL,
		AuthToken:        cfg.Uplink.AuthToken,
		StatePath:        cfg.Uplink.StatePath,
		Timeout:          time.Duration(cfg.Uplink.TimeoutMs) * time.Millisecond,
		SendInterval:     time.Duration(cfg.Uplink.SendIntervalMs) * time.Millisecond,
		RetryInterval:    time.Duration(cfg.Uplink.RetryIntervalMs) * time.Millisecond,
		PairPollInterval: time.Duration(cfg.Uplink.PairPollIntervalMs) * time.Millisecond,
	}, bridge, log)

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
