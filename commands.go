package simbridge

// writeField issues one single-field write, gated on connection state.
// Fire-and-forget: true means the host accepted submission, not that the
// value took effect. The next bulk-read cycle is the only confirmation
// channel.
func (b *Bridge) writeField(defID uint32, value float64) bool {
	if !b.connected {
		return false
	}
	if err := b.host.SetDataOnDefinition(defID, value); err != nil {
		b.log.Debug().Err(err).Uint32("def", defID).Msg("field write failed")
		return false
	}
	return true
}

// SetTransponderCode sets the squawk code.
func (b *Bridge) SetTransponderCode(code int) bool {
	return b.writeField(defTransponder, float64(code))
}

// SetAdfActiveKHz tunes the active ADF frequency.
func (b *Bridge) SetAdfActiveKHz(khz float64) bool {
	return b.writeField(defAdfActive, khz)
}

// SetAdfStandbyKHz tunes the standby ADF frequency.
func (b *Bridge) SetAdfStandbyKHz(khz float64) bool {
	return b.writeField(defAdfStandby, khz)
}

// SetGearHandle moves the gear handle.
func (b *Bridge) SetGearHandle(down bool) bool {
	return b.writeField(defGearHandle, boolValue(down))
}

// SetFlapsIndex selects a flaps handle detent.
func (b *Bridge) SetFlapsIndex(index int) bool {
	return b.writeField(defFlapsIndex, float64(index))
}

// SetParkingBrake sets the parking brake.
func (b *Bridge) SetParkingBrake(on bool) bool {
	return b.writeField(defParkingBrake, boolValue(on))
}

// SetAutopilotMaster toggles the autopilot master switch.
func (b *Bridge) SetAutopilotMaster(on bool) bool {
	return b.writeField(defAutopilot, boolValue(on))
}

// boolValue encodes a boolean field the way the host expects: 0.0 / 1.0.
func boolValue(on bool) float64 {
	if on {
		return 1.0
	}
	return 0.0
}
