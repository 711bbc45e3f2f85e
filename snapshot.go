package simbridge

import (
	"fmt"

	"github.com/opensquawk/simbridge/simhost"
)

// emptySnapshot is returned before the first accepted update.
const emptySnapshot = "{}"

// acceptTelemetry decodes one bulk tuple, overwrites the cache in place,
// stamps the arrival time, and rebuilds the serialized form. A payload
// that fails the width check is dropped whole; partial updates never
// occur.
func (b *Bridge) acceptTelemetry(payload []byte) {
	frame, err := simhost.DecodeFrame(payload)
	if err != nil {
		b.log.Debug().Err(err).Msg("telemetry frame dropped")
		return
	}

	b.snap = frame
	b.snapValid = true
	b.snapAt = b.now()
	b.snapJSON = buildSnapshotJSON(frame)
}

// HasSnapshot reports whether a telemetry update has been accepted since
// the last connect.
func (b *Bridge) HasSnapshot() bool {
	return b.snapValid
}

// Snapshot returns the most recent decoded reading. ok is false before
// the first update and after a disconnect invalidates the cache.
func (b *Bridge) Snapshot() (frame simhost.TelemetryFrame, ok bool) {
	return b.snap, b.snapValid
}

// SnapshotAgeMs returns milliseconds since the last accepted update,
// clamped to zero against clock skew. Zero when no snapshot has ever
// arrived.
func (b *Bridge) SnapshotAgeMs() uint64 {
	if !b.snapValid {
		return 0
	}
	age := b.now().Sub(b.snapAt)
	if age < 0 {
		return 0
	}
	return uint64(age.Milliseconds())
}

// SnapshotJSON returns the cached serialized snapshot, or "{}" until the
// first accepted update. The string is rebuilt once per update, never on
// read; repeated reads return the identical string.
func (b *Bridge) SnapshotJSON() string {
	if !b.snapValid {
		return emptySnapshot
	}
	return b.snapJSON
}

// buildSnapshotJSON renders the flat snapshot object. Key order and
// per-field precision are a bit-exact contract with consumers, which is
// why this is a format string and not encoding/json.
func buildSnapshotJSON(f simhost.TelemetryFrame) string {
	return fmt.Sprintf(
		`{"latitude":%.8f,"longitude":%.8f,"altitude_ft_true":%.2f,"altitude_ft_indicated":%.2f,`+
			`"ias_kt":%.2f,"tas_kt":%.2f,"ground_velocity_mps":%.3f,"turbine_n1_pct":%.2f,`+
			`"on_ground":%.0f,"engine_combustion":%.0f,"transponder_code":%.0f,`+
			`"adf_active_freq_khz":%.3f,"adf_standby_freq_khz":%.3f,"vertical_speed_fpm":%.1f,`+
			`"pitch_deg":%.2f,"turbine_n1_pct_2":%.2f,"gear_handle":%.0f,"flaps_index":%.0f,`+
			`"parking_brake":%.0f,"autopilot_master":%.0f}`,
		f.Latitude,
		f.Longitude,
		f.AltitudeFtTrue,
		f.AltitudeFtIndicated,
		f.IASKt,
		f.TASKt,
		f.GroundVelocityMps,
		f.TurbineN1Pct,
		f.OnGround,
		f.EngineCombustion,
		f.TransponderCode,
		f.AdfActiveFreqKHz,
		f.AdfStandbyFreqKHz,
		f.VerticalSpeedFpm,
		f.PitchDeg,
		f.TurbineN1Pct2,
		f.GearHandle,
		f.FlapsIndex,
		f.ParkingBrake,
		f.AutopilotMaster,
	)
}
