// Package synth is an in-process simulation host: a minimal flight that
// moves on its own and echoes writes back into its state. It exists so
// the daemon and integration tests can exercise the full bridge pipeline
// without a simulator on the other end; real deployments supply their
// own simhost.Host adapter.
package synth

import (
	"errors"
	"math"
	"time"

	"github.com/opensquawk/simbridge/simhost"
)

// deliveryPeriod matches the bulk subscription cadence: once per
// simulated second, delivered on change only.
const deliveryPeriod = time.Second

// metersPerDegreeLat is close enough for a toy flight model.
const metersPerDegreeLat = 111320.0

// Host implements simhost.Host over a synthetic flight state.
type Host struct {
	now  func() time.Time
	open bool

	// defs maps definition IDs to the field names registered on them,
	// in registration order.
	defs map[uint32][]string

	// periodic bulk subscription state
	reqID     uint32
	reqDefID  uint32
	requested bool
	lastSent  time.Time
	lastFrame simhost.TelemetryFrame
	sentOnce  bool

	state   simhost.TelemetryFrame
	phase   float64
	lastAdv time.Time

	queue []simhost.Event
}

// Option configures a Host.
type Option func(*Host)

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(h *Host) { h.now = now }
}

// New creates a synthetic host cruising eastbound out of Hamburg.
func New(opts ...Option) *Host {
	h := &Host{
		now: time.Now,
		state: simhost.TelemetryFrame{
			Latitude:            53.63038900,
			Longitude:           9.98822800,
			AltitudeFtTrue:      36000,
			AltitudeFtIndicated: 36080,
			IASKt:               250,
			TASKt:               430,
			GroundVelocityMps:   221,
			TurbineN1Pct:        86.5,
			EngineCombustion:    1,
			TransponderCode:     7000,
			AdfActiveFreqKHz:    375,
			AdfStandbyFreqKHz:   417,
			PitchDeg:            2.5,
			TurbineN1Pct2:       86.2,
			AutopilotMaster:     1,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ---- simhost.Host ----

// Open starts a session and queues the open acknowledgement.
func (h *Host) Open(name string) error {
	if name == "" {
		return errors.New("synth: client name required")
	}
	h.open = true
	h.defs = make(map[uint32][]string)
	h.requested = false
	h.sentOnce = false
	h.lastAdv = h.now()
	h.queue = append(h.queue, simhost.OpenEvent{})
	return nil
}

// Close ends the session. Queued events are discarded with it.
func (h *Host) Close() error {
	h.open = false
	h.queue = nil
	return nil
}

// AddToDataDefinition appends one field name to a definition.
func (h *Host) AddToDataDefinition(defID uint32, name, unit string) error {
	if !h.open {
		return errors.New("synth: not open")
	}
	if name == "" {
		return errors.New("synth: field name required")
	}
	h.defs[defID] = append(h.defs[defID], name)
	return nil
}

// RequestDataOnPeriod arms the periodic bulk delivery for a definition.
func (h *Host) RequestDataOnPeriod(requestID, defID uint32) error {
	if !h.open {
		return errors.New("synth: not open")
	}
	if _, ok := h.defs[defID]; !ok {
		return errors.New("synth: unknown definition")
	}
	h.reqID = requestID
	h.reqDefID = defID
	h.requested = true
	h.lastSent = time.Time{}
	return nil
}

// SetDataOnDefinition applies a single-field write to the flight state.
// The write is visible in the next delivered frame, like a host echoing
// a command through its own state.
func (h *Host) SetDataOnDefinition(defID uint32, value float64) error {
	if !h.open {
		return errors.New("synth: not open")
	}
	names := h.defs[defID]
	if len(names) != 1 {
		return errors.New("synth: write needs a single-field definition")
	}
	if !h.setVar(names[0], value) {
		return errors.New("synth: unknown variable " + names[0])
	}
	return nil
}

// Poll advances the flight, emits any due telemetry frame, and drains
// the queue. Never blocks.
func (h *Host) Poll() []simhost.Event {
	if !h.open {
		return nil
	}

	now := h.now()
	h.advance(now)

	if h.requested && (h.lastSent.IsZero() || now.Sub(h.lastSent) >= deliveryPeriod) {
		frame := h.state
		if !h.sentOnce || frame != h.lastFrame {
			h.queue = append(h.queue, simhost.DataEvent{
				RequestID: h.reqID,
				Payload:   simhost.EncodeFrame(frame),
			})
			h.lastFrame = frame
			h.sentOnce = true
		}
		h.lastSent = now
	}

	out := h.queue
	h.queue = nil
	return out
}

// ---- flight model ----

// advance integrates the toy flight: eastbound track at ground speed,
// with a slow phugoid wobble in pitch and vertical speed.
func (h *Host) advance(now time.Time) {
	dt := now.Sub(h.lastAdv).Seconds()
	h.lastAdv = now
	if dt <= 0 || dt > 60 {
		return
	}

	s := &h.state
	h.phase += dt / 30 * 2 * math.Pi

	// eastbound at ground speed
	cos := math.Cos(s.Latitude * math.Pi / 180)
	if cos < 0.01 {
		cos = 0.01
	}
	s.Longitude += s.GroundVelocityMps * dt / (metersPerDegreeLat * cos)
	if s.Longitude > 180 {
		s.Longitude -= 360
	}

	// gentle altitude wobble
	s.PitchDeg = 2.5 + 0.4*math.Sin(h.phase)
	s.VerticalSpeedFpm = 120 * math.Sin(h.phase)
	s.AltitudeFtTrue += s.VerticalSpeedFpm * dt / 60
	s.AltitudeFtIndicated = s.AltitudeFtTrue + 80
}

// setVar applies a write by host variable name.
func (h *Host) setVar(name string, value float64) bool {
	s := &h.state
	switch name {
	case "TRANSPONDER CODE:1":
		s.TransponderCode = value
	case "ADF ACTIVE FREQUENCY:1":
		s.AdfActiveFreqKHz = value
	case "ADF STANDBY FREQUENCY:1":
		s.AdfStandbyFreqKHz = value
	case "GEAR HANDLE POSITION":
		s.GearHandle = value
	case "FLAPS HANDLE INDEX":
		s.FlapsIndex = value
	case "BRAKE PARKING POSITION":
		s.ParkingBrake = value
	case "AUTOPILOT MASTER":
		s.AutopilotMaster = value
	default:
		return false
	}
	return true
}
