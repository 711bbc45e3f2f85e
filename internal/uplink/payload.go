package uplink

import (
	"math"
	"time"

	"github.com/opensquawk/simbridge/simhost"
)

// mpsToKnots converts ground velocity for the upload payload.
const mpsToKnots = 1.943844

// Payload is the telemetry upload body. Field set and rounding follow
// the service contract; this is a coarser rendering than the bridge's
// own snapshot JSON.
type Payload struct {
	Token  string `json:"token"`
	Status string `json:"status"`
	TS     int64  `json:"ts"`

	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	AltitudeFtTrue      int     `json:"altitude_ft_true"`
	AltitudeFtIndicated int     `json:"altitude_ft_indicated"`
	IASKt               float64 `json:"ias_kt"`
	TASKt               float64 `json:"tas_kt"`
	GroundspeedKt       float64 `json:"groundspeed_kt"`
	OnGround            bool    `json:"on_ground"`
	EngOn               bool    `json:"eng_on"`
	N1Pct               float64 `json:"n1_pct"`
	TransponderCode     int     `json:"transponder_code"`
	AdfActiveFreq       int     `json:"adf_active_freq"`
	AdfStandbyFreqHz    int     `json:"adf_standby_freq_hz"`
	VerticalSpeedFpm    int     `json:"vertical_speed_fpm"`
	PitchDeg            float64 `json:"pitch_deg"`
	N1Pct2              float64 `json:"n1_pct_2"`
	GearHandle          bool    `json:"gear_handle"`
	FlapsIndex          int     `json:"flaps_index"`
	ParkingBrake        bool    `json:"parking_brake"`
	AutopilotMaster     bool    `json:"autopilot_master"`
}

// BuildPayload renders one upload from a bridge reading. ok is false for
// readings without a plausible position; the service rejects those
// anyway, so they are never sent.
func BuildPayload(token string, f simhost.TelemetryFrame, now time.Time) (Payload, bool) {
	if f.Latitude < -90 || f.Latitude > 90 || f.Longitude < -180 || f.Longitude > 180 {
		return Payload{}, false
	}

	return Payload{
		Token:  token,
		Status: "active",
		TS:     now.Unix(),

		Latitude:            roundTo(f.Latitude, 6),
		Longitude:           roundTo(f.Longitude, 6),
		AltitudeFtTrue:      int(math.Round(f.AltitudeFtTrue)),
		AltitudeFtIndicated: int(math.Round(f.AltitudeFtIndicated)),
		IASKt:               roundTo(f.IASKt, 1),
		TASKt:               roundTo(f.TASKt, 1),
		GroundspeedKt:       roundTo(f.GroundVelocityMps*mpsToKnots, 1),
		OnGround:            f.OnGround >= 0.5,
		EngOn:               f.EngineCombustion >= 0.5 || f.TurbineN1Pct > 5.0,
		N1Pct:               roundTo(f.TurbineN1Pct, 1),
		TransponderCode:     int(math.Round(f.TransponderCode)),
		AdfActiveFreq:       int(math.Round(f.AdfActiveFreqKHz)),
		AdfStandbyFreqHz:    int(math.Round(f.AdfStandbyFreqKHz)),
		VerticalSpeedFpm:    int(math.Round(f.VerticalSpeedFpm)),
		PitchDeg:            roundTo(f.PitchDeg, 1),
		N1Pct2:              roundTo(f.TurbineN1Pct2, 1),
		GearHandle:          f.GearHandle >= 0.5,
		FlapsIndex:          int(math.Round(f.FlapsIndex)),
		ParkingBrake:        f.ParkingBrake >= 0.5,
		AutopilotMaster:     f.AutopilotMaster >= 0.5,
	}, true
}

func roundTo(v float64, digits int) float64 {
	scale := math.Pow10(digits)
	return math.Round(v*scale) / scale
}
