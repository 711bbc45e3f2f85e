package main

import (
	"sync"

	"github.com/opensquawk/simbridge"
	"github.com/opensquawk/simbridge/simhost"
)

// lockedBridge serializes bridge calls between the tick scheduler and
// the uplink goroutine. The bridge itself is single-threaded by
// contract; a multi-threaded embedding owns the locking.
type lockedBridge struct {
	mu sync.Mutex
	b  *simbridge.Bridge
}

func (l *lockedBridge) ModuleInit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.ModuleInit()
}

func (l *lockedBridge) ModuleDeinit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.ModuleDeinit()
}

func (l *lockedBridge) Tick() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.Tick()
}

func (l *lockedBridge) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.IsConnected()
}

func (l *lockedBridge) Snapshot() (simhost.TelemetryFrame, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Snapshot()
}

func (l *lockedBridge) SetTransponderCode(code int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.SetTransponderCode(code)
}

func (l *lockedBridge) SetAdfActiveKHz(khz float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.SetAdfActiveKHz(khz)
}

func (l *lockedBridge) SetAdfStandbyKHz(khz float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.SetAdfStandbyKHz(khz)
}

func (l *lockedBridge) SetGearHandle(down bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.SetGearHandle(down)
}

func (l *lockedBridge) SetFlapsIndex(index int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.SetFlapsIndex(index)
}

func (l *lockedBridge) SetParkingBrake(on bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.SetParkingBrake(on)
}

func (l *lockedBridge) SetAutopilotMaster(on bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.SetAutopilotMaster(on)
}
