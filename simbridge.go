// Package simbridge is a single-consumer, single-producer bridge to an
// external simulation host. It polls live telemetry into a cache, exposes
// the most recent reading as a serialized snapshot, and forwards discrete
// command writes back into the host.
//
// The bridge is an explicit context object owned by the embedding host.
// All calls are expected on one logical thread of control; an embedder
// running multiple goroutines must confine bridge calls or add its own
// mutex.
//
// Example usage:
//
//	b := simbridge.New(host)
//	b.ModuleInit()
//	for range scheduler {
//	    b.Tick()
//	    _ = b.SnapshotJSON()
//	}
//	b.ModuleDeinit()
package simbridge

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/opensquawk/simbridge/simhost"
)

// connectCooldown is the minimum interval between connection attempts.
// Prevents hot-looping a failing host.
const connectCooldown = 2000 * time.Millisecond

// clientName identifies this bridge to the host on open.
const clientName = "OpenSquawkBridge"

// Bridge owns the host connection, the telemetry cache, and the command
// surface. Zero value is not usable; construct with New.
type Bridge struct {
	host simhost.Host
	log  zerolog.Logger
	now  func() time.Time

	connected     bool
	lastAttempt   time.Time // zero until the first attempt
	everAttempted bool

	snapValid bool
	snapAt    time.Time
	snap      simhost.TelemetryFrame
	snapJSON  string
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger attaches a logger for connection lifecycle transitions.
// The bridge is silent by default.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Bridge) { b.log = l }
}

// WithClock substitutes the time source. Tests use this to drive the
// connect cooldown and snapshot age deterministically.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) { b.now = now }
}

// New creates a disconnected bridge over the given host channel.
func New(host simhost.Host, opts ...Option) *Bridge {
	b := &Bridge{
		host: host,
		log:  zerolog.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// IsConnected reports the current connection state.
func (b *Bridge) IsConnected() bool {
	return b.connected
}

// EnsureConnected makes at most one connection attempt, gated by the
// cooldown. Already connected is a no-op returning true. Failure is
// silent: callers cannot distinguish "too soon" from "host down", and
// both resolve the same way, by retrying on a later tick.
func (b *Bridge) EnsureConnected() bool {
	if b.connected {
		return true
	}

	now := b.now()
	if b.everAttempted && now.Sub(b.lastAttempt) < connectCooldown {
		return false
	}
	b.lastAttempt = now
	b.everAttempted = true

	if err := b.host.Open(clientName); err != nil {
		b.log.Debug().Err(err).Msg("host open failed")
		return false
	}
	b.connected = true

	if err := b.registerFields(); err != nil {
		// A session that cannot register its fields is useless;
		// tear it down and fall back to the cooldown path.
		b.log.Debug().Err(err).Msg("field registration failed")
		b.Close()
		return false
	}

	b.log.Info().Msg("host connected")
	return true
}

// Close releases the host handle, drops the connection state, and
// invalidates the cached snapshot. Idempotent.
func (b *Bridge) Close() {
	_ = b.host.Close()
	if b.connected {
		b.log.Info().Msg("host disconnected")
	}
	b.connected = false
	b.snapValid = false
}

// Tick advances the bridge: ensure connection (lazily, with cooldown),
// then pump every event the host has queued. Called once per scheduling
// period by the embedding runtime. Never blocks waiting for events.
func (b *Bridge) Tick() {
	b.EnsureConnected()
	if !b.connected {
		return
	}

	for _, ev := range b.host.Poll() {
		switch ev := ev.(type) {
		case simhost.OpenEvent:
			// Connection state already flipped on the synchronous open.

		case simhost.QuitEvent:
			// Unrecoverable external disconnect; reconnect with
			// cooldown on a later tick. Remaining queued events
			// belong to the dead session.
			b.Close()
			return

		case simhost.DataEvent:
			if ev.RequestID != requestTelemetry {
				continue
			}
			b.acceptTelemetry(ev.Payload)

		case simhost.UnknownEvent:
			// Forward-compatible: unknown kinds are not errors.

		default:
		}
	}
}
