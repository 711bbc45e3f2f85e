package simhost

import (
	"encoding/binary"
	"fmt"
	"math"
)

// FrameFields is the fixed number of values in one bulk telemetry tuple.
const FrameFields = 20

// FrameBytes is the exact wire size of one tuple: 20 consecutive
// little-endian IEEE-754 doubles.
const FrameBytes = FrameFields * 8

// TelemetryFrame is one decoded bulk telemetry tuple.
// Field order matches the bulk definition; it is part of the wire
// contract and must not be reordered.
type TelemetryFrame struct {
	Latitude            float64
	Longitude           float64
	AltitudeFtTrue      float64
	AltitudeFtIndicated float64
	IASKt               float64
	TASKt               float64
	GroundVelocityMps   float64
	TurbineN1Pct        float64
	OnGround            float64
	EngineCombustion    float64
	TransponderCode     float64
	AdfActiveFreqKHz    float64
	AdfStandbyFreqKHz   float64
	VerticalSpeedFpm    float64
	PitchDeg            float64
	TurbineN1Pct2       float64
	GearHandle          float64
	FlapsIndex          float64
	ParkingBrake        float64
	AutopilotMaster     float64
}

// fields returns pointers to the frame values in wire order.
func (f *TelemetryFrame) fields() [FrameFields]*float64 {
	return [FrameFields]*float64{
		&f.Latitude,
		&f.Longitude,
		&f.AltitudeFtTrue,
		&f.AltitudeFtIndicated,
		&f.IASKt,
		&f.TASKt,
		&f.GroundVelocityMps,
		&f.TurbineN1Pct,
		&f.OnGround,
		&f.EngineCombustion,
		&f.TransponderCode,
		&f.AdfActiveFreqKHz,
		&f.AdfStandbyFreqKHz,
		&f.VerticalSpeedFpm,
		&f.PitchDeg,
		&f.TurbineN1Pct2,
		&f.GearHandle,
		&f.FlapsIndex,
		&f.ParkingBrake,
		&f.AutopilotMaster,
	}
}

// DecodeFrame unpacks one wire tuple.
// Width and order are checked explicitly; a short or long payload is an
// error, never a partial frame.
func DecodeFrame(p []byte) (TelemetryFrame, error) {
	var f TelemetryFrame
	if len(p) != FrameBytes {
		return f, fmt.Errorf("simhost: frame length %d, want %d", len(p), FrameBytes)
	}
	for i, dst := range f.fields() {
		*dst = math.Float64frombits(binary.LittleEndian.Uint64(p[8*i : 8*i+8]))
	}
	return f, nil
}

// EncodeFrame packs a tuple into wire form. Used by stub hosts and by
// round-trip tests; the bridge itself only decodes.
func EncodeFrame(f TelemetryFrame) []byte {
	p := make([]byte, FrameBytes)
	for i, src := range f.fields() {
		binary.LittleEndian.PutUint64(p[8*i:8*i+8], math.Float64bits(*src))
	}
	return p
}
