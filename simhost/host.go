// Package simhost defines the contract between the bridge and the
// external simulation host: the connection surface, the event variants
// the host delivers, and the wire form of the bulk telemetry tuple.
package simhost

// Host abstracts the simulator channel the bridge drives.
// The bridge depends on this contract only; the concrete client is an
// external collaborator and tests substitute fakes.
type Host interface {
	// Open performs the connect handshake. One attempt, no retries.
	Open(name string) error

	// Close releases the connection. Safe to call when already closed.
	Close() error

	// AddToDataDefinition appends one named field to a definition.
	AddToDataDefinition(defID uint32, name, unit string) error

	// RequestDataOnPeriod subscribes the definition for periodic
	// delivery, once per simulated second, delivered only on change.
	RequestDataOnPeriod(requestID, defID uint32) error

	// SetDataOnDefinition writes one value to a single-field definition.
	SetDataOnDefinition(defID uint32, value float64) error

	// Poll drains the events the host has already queued.
	// It never waits for more.
	Poll() []Event
}

// Event is the closed set of host event variants.
// Unknown kinds decode to UnknownEvent; they are not errors.
type Event interface {
	isEvent()
}

// OpenEvent acknowledges a completed open handshake.
type OpenEvent struct{}

// QuitEvent signals that the host is going away.
type QuitEvent struct{}

// DataEvent carries one bulk telemetry delivery.
// Payload is the raw wire tuple; see DecodeFrame.
type DataEvent struct {
	RequestID uint32
	Payload   []byte
}

// UnknownEvent is any event kind this bridge does not understand.
type UnknownEvent struct {
	Kind uint32
}

func (OpenEvent) isEvent()    {}
func (QuitEvent) isEvent()    {}
func (DataEvent) isEvent()    {}
func (UnknownEvent) isEvent() {}
