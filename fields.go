package simbridge

// Definition and request identifiers in the host namespace.
// Values are part of the host session contract and MUST NOT be reused
// across definitions.
const (
	requestTelemetry uint32 = 1
	defTelemetry     uint32 = 1

	defTransponder  uint32 = 10
	defAdfActive    uint32 = 11
	defAdfStandby   uint32 = 12
	defGearHandle   uint32 = 13
	defFlapsIndex   uint32 = 14
	defParkingBrake uint32 = 15
	defAutopilot    uint32 = 16
)

// Direction says how a registered field is used.
type Direction uint8

const (
	// DirRead fields are delivered in the bulk telemetry tuple.
	DirRead Direction = iota
	// DirWrite fields are individually addressable for commands.
	DirWrite
)

// FieldDescriptor declares one named host field.
// The full set is fixed at build time and immutable after registration.
type FieldDescriptor struct {
	Name      string
	Unit      string
	Slot      int
	Direction Direction
}

// readFields is the bulk-read declaration in canonical tuple order.
// Slot is the index into the wire tuple; the serializer and the frame
// decoder both key off this order.
var readFields = []FieldDescriptor{
	{Name: "PLANE LATITUDE", Unit: "degrees", Slot: 0, Direction: DirRead},
	{Name: "PLANE LONGITUDE", Unit: "degrees", Slot: 1, Direction: DirRead},
	{Name: "PLANE ALTITUDE", Unit: "feet", Slot: 2, Direction: DirRead},
	{Name: "INDICATED ALTITUDE", Unit: "feet", Slot: 3, Direction: DirRead},
	{Name: "AIRSPEED INDICATED", Unit: "knots", Slot: 4, Direction: DirRead},
	{Name: "AIRSPEED TRUE", Unit: "knots", Slot: 5, Direction: DirRead},
	{Name: "GROUND VELOCITY", Unit: "meters per second", Slot: 6, Direction: DirRead},
	{Name: "TURB ENG N1:1", Unit: "percent", Slot: 7, Direction: DirRead},
	{Name: "SIM ON GROUND", Unit: "bool", Slot: 8, Direction: DirRead},
	{Name: "ENG COMBUSTION:1", Unit: "bool", Slot: 9, Direction: DirRead},
	{Name: "TRANSPONDER CODE:1", Unit: "bco16", Slot: 10, Direction: DirRead},
	{Name: "ADF ACTIVE FREQUENCY:1", Unit: "kilohertz", Slot: 11, Direction: DirRead},
	{Name: "ADF STANDBY FREQUENCY:1", Unit: "kilohertz", Slot: 12, Direction: DirRead},
	{Name: "VERTICAL SPEED", Unit: "feet per minute", Slot: 13, Direction: DirRead},
	{Name: "PLANE PITCH DEGREES", Unit: "degrees", Slot: 14, Direction: DirRead},
	{Name: "TURB ENG N1:2", Unit: "percent", Slot: 15, Direction: DirRead},
	{Name: "GEAR HANDLE POSITION", Unit: "bool", Slot: 16, Direction: DirRead},
	{Name: "FLAPS HANDLE INDEX", Unit: "number", Slot: 17, Direction: DirRead},
	{Name: "BRAKE PARKING POSITION", Unit: "bool", Slot: 18, Direction: DirRead},
	{Name: "AUTOPILOT MASTER", Unit: "bool", Slot: 19, Direction: DirRead},
}

// writeFields maps each single-field write definition to its descriptor.
// Separate per-field definitions avoid re-sending the whole tuple for a
// one-field command.
var writeFields = map[uint32]FieldDescriptor{
	defTransponder:  {Name: "TRANSPONDER CODE:1", Unit: "bco16", Direction: DirWrite},
	defAdfActive:    {Name: "ADF ACTIVE FREQUENCY:1", Unit: "kilohertz", Direction: DirWrite},
	defAdfStandby:   {Name: "ADF STANDBY FREQUENCY:1", Unit: "kilohertz", Direction: DirWrite},
	defGearHandle:   {Name: "GEAR HANDLE POSITION", Unit: "bool", Direction: DirWrite},
	defFlapsIndex:   {Name: "FLAPS HANDLE INDEX", Unit: "number", Direction: DirWrite},
	defParkingBrake: {Name: "BRAKE PARKING POSITION", Unit: "bool", Direction: DirWrite},
	defAutopilot:    {Name: "AUTOPILOT MASTER", Unit: "bool", Direction: DirWrite},
}

// registerFields declares the bulk-read definition and the per-field
// write definitions on a freshly opened host session, then issues the
// periodic bulk subscription. Idempotent re-registration after a quit is
// the host's concern; we re-declare the same set every open.
func (b *Bridge) registerFields() error {
	for _, fd := range readFields {
		if err := b.host.AddToDataDefinition(defTelemetry, fd.Name, fd.Unit); err != nil {
			return err
		}
	}
	for defID, fd := range writeFields {
		if err := b.host.AddToDataDefinition(defID, fd.Name, fd.Unit); err != nil {
			return err
		}
	}
	return b.host.RequestDataOnPeriod(requestTelemetry, defTelemetry)
}
