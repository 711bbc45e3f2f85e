package simbridge

import (
	"errors"
	"testing"
	"time"

	"github.com/opensquawk/simbridge/simhost"
)

// fakeHost records every call and replays scripted events.
type fakeHost struct {
	openErr  error
	writeErr error

	opens  int
	closes int

	defs     map[uint32][]string
	requests [][2]uint32 // {requestID, defID}
	writes   []fieldWrite

	queue []simhost.Event
}

type fieldWrite struct {
	defID uint32
	value float64
}

func (f *fakeHost) Open(name string) error {
	f.opens++
	if f.openErr != nil {
		return f.openErr
	}
	f.defs = make(map[uint32][]string)
	return nil
}

func (f *fakeHost) Close() error {
	f.closes++
	return nil
}

func (f *fakeHost) AddToDataDefinition(defID uint32, name, unit string) error {
	f.defs[defID] = append(f.defs[defID], name)
	return nil
}

func (f *fakeHost) RequestDataOnPeriod(requestID, defID uint32) error {
	f.requests = append(f.requests, [2]uint32{requestID, defID})
	return nil
}

func (f *fakeHost) SetDataOnDefinition(defID uint32, value float64) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, fieldWrite{defID: defID, value: value})
	return nil
}

func (f *fakeHost) Poll() []simhost.Event {
	out := f.queue
	f.queue = nil
	return out
}

// clock is a manual time source.
type clock struct {
	t time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBridge(host *fakeHost) (*Bridge, *clock) {
	ck := newClock()
	return New(host, WithClock(ck.now)), ck
}

// ---- connection lifecycle ----

func TestEnsureConnected_Cooldown(t *testing.T) {
	host := &fakeHost{openErr: errors.New("host down")}
	b, ck := newTestBridge(host)

	if b.EnsureConnected() {
		t.Fatalf("expected failure against a down host")
	}
	if host.opens != 1 {
		t.Fatalf("opens=%d, want 1", host.opens)
	}

	// inside the cooldown window: no new attempt
	ck.advance(1999 * time.Millisecond)
	if b.EnsureConnected() {
		t.Fatalf("expected failure inside cooldown")
	}
	if host.opens != 1 {
		t.Fatalf("attempted during cooldown: opens=%d", host.opens)
	}

	// cooldown elapsed: one more attempt
	ck.advance(1 * time.Millisecond)
	b.EnsureConnected()
	if host.opens != 2 {
		t.Fatalf("opens=%d, want 2", host.opens)
	}
}

func TestEnsureConnected_RegistersAllDefinitions(t *testing.T) {
	host := &fakeHost{}
	b, _ := newTestBridge(host)

	if !b.EnsureConnected() {
		t.Fatalf("EnsureConnected failed")
	}
	if !b.IsConnected() {
		t.Fatalf("IsConnected=false after successful open")
	}

	names := host.defs[defTelemetry]
	if len(names) != simhost.FrameFields {
		t.Fatalf("bulk definition has %d fields, want %d", len(names), simhost.FrameFields)
	}
	if names[0] != "PLANE LATITUDE" || names[19] != "AUTOPILOT MASTER" {
		t.Fatalf("bulk definition order wrong: first=%q last=%q", names[0], names[19])
	}

	for _, defID := range []uint32{defTransponder, defAdfActive, defAdfStandby, defGearHandle, defFlapsIndex, defParkingBrake, defAutopilot} {
		if len(host.defs[defID]) != 1 {
			t.Fatalf("write definition %d has %d fields, want 1", defID, len(host.defs[defID]))
		}
	}

	if len(host.requests) != 1 || host.requests[0] != [2]uint32{requestTelemetry, defTelemetry} {
		t.Fatalf("subscription not issued: %v", host.requests)
	}

	// idempotent: no second handshake
	if !b.EnsureConnected() {
		t.Fatalf("EnsureConnected not idempotent")
	}
	if host.opens != 1 {
		t.Fatalf("reconnected while connected: opens=%d", host.opens)
	}
}

func TestClose_Idempotent(t *testing.T) {
	host := &fakeHost{}
	b, _ := newTestBridge(host)

	b.Close()
	b.Close()
	if host.closes != 2 {
		t.Fatalf("closes=%d, want 2", host.closes)
	}
	if b.IsConnected() {
		t.Fatalf("connected after Close")
	}
}

// ---- dispatch ----

func testFrame() simhost.TelemetryFrame {
	return simhost.TelemetryFrame{
		Latitude:            53.5,
		Longitude:           10.0,
		AltitudeFtTrue:      35000,
		AltitudeFtIndicated: 34980.5,
		IASKt:               250.25,
		TASKt:               430.5,
		GroundVelocityMps:   216.125,
		TurbineN1Pct:        86.5,
		OnGround:            0,
		EngineCombustion:    1,
		TransponderCode:     7000,
		AdfActiveFreqKHz:    375.5,
		AdfStandbyFreqKHz:   417,
		VerticalSpeedFpm:    -128.5,
		PitchDeg:            2.5,
		TurbineN1Pct2:       86.25,
		GearHandle:          1,
		FlapsIndex:          2,
		ParkingBrake:        0,
		AutopilotMaster:     1,
	}
}

const goldenJSON = `{"latitude":53.50000000,"longitude":10.00000000,` +
	`"altitude_ft_true":35000.00,"altitude_ft_indicated":34980.50,` +
	`"ias_kt":250.25,"tas_kt":430.50,"ground_velocity_mps":216.125,` +
	`"turbine_n1_pct":86.50,"on_ground":0,"engine_combustion":1,` +
	`"transponder_code":7000,"adf_active_freq_khz":375.500,` +
	`"adf_standby_freq_khz":417.000,"vertical_speed_fpm":-128.5,` +
	`"pitch_deg":2.50,"turbine_n1_pct_2":86.25,"gear_handle":1,` +
	`"flaps_index":2,"parking_brake":0,"autopilot_master":1}`

func TestSnapshot_EmptyUntilFirstData(t *testing.T) {
	host := &fakeHost{}
	b, _ := newTestBridge(host)

	b.Tick()
	if !b.IsConnected() {
		t.Fatalf("tick did not connect")
	}
	if b.HasSnapshot() {
		t.Fatalf("snapshot valid before any data")
	}
	if got := b.SnapshotJSON(); got != "{}" {
		t.Fatalf("SnapshotJSON()=%q, want {}", got)
	}
	if b.SnapshotAgeMs() != 0 {
		t.Fatalf("age=%d before any data, want 0", b.SnapshotAgeMs())
	}
}

func TestTick_DataEventGoldenJSON(t *testing.T) {
	host := &fakeHost{}
	b, _ := newTestBridge(host)
	b.EnsureConnected()

	host.queue = []simhost.Event{
		simhost.OpenEvent{},
		simhost.DataEvent{RequestID: requestTelemetry, Payload: simhost.EncodeFrame(testFrame())},
	}
	b.Tick()

	if !b.HasSnapshot() {
		t.Fatalf("no snapshot after data event")
	}
	if got := b.SnapshotJSON(); got != goldenJSON {
		t.Fatalf("snapshot mismatch:\n got=%s\nwant=%s", got, goldenJSON)
	}
	// repeated reads return the identical cached string
	if b.SnapshotJSON() != b.SnapshotJSON() {
		t.Fatalf("snapshot not stable between reads")
	}
}

func TestTick_IgnoresUnrelatedAndUnknownEvents(t *testing.T) {
	host := &fakeHost{}
	b, _ := newTestBridge(host)
	b.EnsureConnected()

	host.queue = []simhost.Event{
		simhost.DataEvent{RequestID: 99, Payload: simhost.EncodeFrame(testFrame())},
		simhost.UnknownEvent{Kind: 4242},
	}
	b.Tick()

	if b.HasSnapshot() {
		t.Fatalf("unrelated data event updated the cache")
	}
	if !b.IsConnected() {
		t.Fatalf("unknown event changed connection state")
	}
}

func TestTick_MalformedPayloadDropped(t *testing.T) {
	host := &fakeHost{}
	b, _ := newTestBridge(host)
	b.EnsureConnected()

	host.queue = []simhost.Event{
		simhost.DataEvent{RequestID: requestTelemetry, Payload: make([]byte, simhost.FrameBytes-8)},
	}
	b.Tick()

	if b.HasSnapshot() {
		t.Fatalf("short payload accepted")
	}
}

func TestQuit_InvalidatesAndReconnectsAfterCooldown(t *testing.T) {
	host := &fakeHost{}
	b, ck := newTestBridge(host)
	b.EnsureConnected()

	host.queue = []simhost.Event{
		simhost.DataEvent{RequestID: requestTelemetry, Payload: simhost.EncodeFrame(testFrame())},
	}
	b.Tick()
	if !b.HasSnapshot() {
		t.Fatalf("no snapshot before quit")
	}

	host.queue = []simhost.Event{simhost.QuitEvent{}}
	b.Tick()

	if b.IsConnected() {
		t.Fatalf("still connected after quit")
	}
	if b.SnapshotJSON() != "{}" {
		t.Fatalf("snapshot survived quit: %s", b.SnapshotJSON())
	}
	if host.closes != 1 {
		t.Fatalf("closes=%d, want 1", host.closes)
	}

	// next tick inside the cooldown does not reconnect
	b.Tick()
	if b.IsConnected() {
		t.Fatalf("reconnected inside cooldown")
	}

	// after the cooldown the bridge reconnects and re-registers
	ck.advance(2 * time.Second)
	b.Tick()
	if !b.IsConnected() {
		t.Fatalf("did not reconnect after cooldown")
	}
	if got := len(host.defs[defTelemetry]); got != simhost.FrameFields {
		t.Fatalf("re-registration produced %d bulk fields, want %d", got, simhost.FrameFields)
	}
}

func TestSnapshotAgeMs(t *testing.T) {
	host := &fakeHost{}
	b, ck := newTestBridge(host)
	b.EnsureConnected()

	host.queue = []simhost.Event{
		simhost.DataEvent{RequestID: requestTelemetry, Payload: simhost.EncodeFrame(testFrame())},
	}
	b.Tick()

	if b.SnapshotAgeMs() != 0 {
		t.Fatalf("fresh snapshot age=%d, want 0", b.SnapshotAgeMs())
	}

	ck.advance(1500 * time.Millisecond)
	if got := b.SnapshotAgeMs(); got != 1500 {
		t.Fatalf("age=%d, want 1500", got)
	}

	// a new data event resets the age
	host.queue = []simhost.Event{
		simhost.DataEvent{RequestID: requestTelemetry, Payload: simhost.EncodeFrame(testFrame())},
	}
	b.Tick()
	if got := b.SnapshotAgeMs(); got != 0 {
		t.Fatalf("age=%d after new data, want 0", got)
	}

	// clock skew clamps to zero instead of going negative
	ck.t = ck.t.Add(-10 * time.Second)
	if got := b.SnapshotAgeMs(); got != 0 {
		t.Fatalf("age=%d with skewed clock, want 0", got)
	}
}

// ---- command surface ----

func TestSetters_DisconnectedProduceNoWrites(t *testing.T) {
	host := &fakeHost{openErr: errors.New("host down")}
	b, _ := newTestBridge(host)

	ok := b.SetTransponderCode(7000) ||
		b.SetAdfActiveKHz(375.5) ||
		b.SetAdfStandbyKHz(417) ||
		b.SetGearHandle(true) ||
		b.SetFlapsIndex(2) ||
		b.SetParkingBrake(true) ||
		b.SetAutopilotMaster(true)
	if ok {
		t.Fatalf("a setter succeeded while disconnected")
	}
	if len(host.writes) != 0 {
		t.Fatalf("outbound writes while disconnected: %v", host.writes)
	}
}

func TestSetters_EncodeAndSubmit(t *testing.T) {
	host := &fakeHost{}
	b, _ := newTestBridge(host)
	b.EnsureConnected()

	if !b.SetTransponderCode(7000) {
		t.Fatalf("SetTransponderCode failed")
	}
	if !b.SetAdfActiveKHz(375.5) {
		t.Fatalf("SetAdfActiveKHz failed")
	}
	if !b.SetGearHandle(true) {
		t.Fatalf("SetGearHandle failed")
	}
	if !b.SetParkingBrake(false) {
		t.Fatalf("SetParkingBrake failed")
	}
	if !b.SetFlapsIndex(3) {
		t.Fatalf("SetFlapsIndex failed")
	}

	want := []fieldWrite{
		{defID: defTransponder, value: 7000},
		{defID: defAdfActive, value: 375.5},
		{defID: defGearHandle, value: 1.0},
		{defID: defParkingBrake, value: 0.0},
		{defID: defFlapsIndex, value: 3},
	}
	if len(host.writes) != len(want) {
		t.Fatalf("writes=%v, want %v", host.writes, want)
	}
	for i, w := range want {
		if host.writes[i] != w {
			t.Fatalf("write[%d]=%v, want %v", i, host.writes[i], w)
		}
	}
}

func TestSetters_HostRejection(t *testing.T) {
	host := &fakeHost{}
	b, _ := newTestBridge(host)
	b.EnsureConnected()

	host.writeErr = errors.New("submission failed")
	if b.SetAutopilotMaster(true) {
		t.Fatalf("setter succeeded although the host rejected the write")
	}
}

// ---- round trip ----

func TestRoundTrip_WriteReflectedByNextBulkRead(t *testing.T) {
	host := &fakeHost{}
	b, _ := newTestBridge(host)
	b.EnsureConnected()

	if !b.SetTransponderCode(1200) {
		t.Fatalf("write not submitted")
	}

	// the host echoes the written value in the next bulk delivery
	frame := testFrame()
	frame.TransponderCode = host.writes[0].value
	host.queue = []simhost.Event{
		simhost.DataEvent{RequestID: requestTelemetry, Payload: simhost.EncodeFrame(frame)},
	}
	b.Tick()

	snap, ok := b.Snapshot()
	if !ok {
		t.Fatalf("no snapshot after echo")
	}
	if snap.TransponderCode != 1200 {
		t.Fatalf("transponder=%v, want 1200", snap.TransponderCode)
	}
}
