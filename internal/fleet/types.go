// Package fleet is the core of the ground-station-side fleet
// controller: per-vehicle session lifecycle, the worker pool that
// drives the MAVLink request/response protocols, and the telemetry
// snapshot model consumed by an embedder.
package fleet

import (
	"errors"
	"fmt"
)

// SystemID is a MAVLink system id. 0 is reserved as broadcast/unset;
// valid vehicle ids are 1..255.
type SystemID = uint8

// VehicleStatus is the per-vehicle lifecycle state. Transitions are
// exclusively Uninitialized -> Initiating -> Disarmed <-> Armed.
type VehicleStatus int32

const (
	StatusUninitialized VehicleStatus = iota
	StatusInitiating
	StatusDisarmed
	StatusArmed
)

func (s VehicleStatus) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInitiating:
		return "initiating"
	case StatusDisarmed:
		return "disarmed"
	case StatusArmed:
		return "armed"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Bounded queue capacities, named after the original implementation's
// MAX_STATUSTEX / MAX_NAMED_VALUE_FLOAT / MAX_MESSAGE constants.
const (
	MaxStatustext     = 64
	MaxNamedValueFloat = 128
	MaxMessage        = 256
)

// ManualControlSetpoint is the joystick state transmitted by the
// Manual-Control Pump. z is neutral at 500 (range 0..1000); x, y, r
// range -1000..1000. Types match MANUAL_CONTROL's wire fields (int16).
type ManualControlSetpoint struct {
	X, Y, Z, R int16
	Buttons    uint16
}

// NeutralManualControl is the value a fresh session, and arm/disarm,
// reset the setpoint to: {0,0,500,0,0}.
func NeutralManualControl() ManualControlSetpoint {
	return ManualControlSetpoint{X: 0, Y: 0, Z: 500, R: 0, Buttons: 0}
}

// TransportSelector picks how the Supervisor opens the wire.
type TransportSelector struct {
	Kind          TransportKind
	SubnetAddress string // used when Kind == TransportExplicitSubnet
	SerialDevice  string
	SerialBaud    int

	// StationSystemID/StationComponentID are the ground station's own
	// identity on the bus (config [station] section), used as the
	// node's OutSystemID/OutComponentID.
	StationSystemID    uint8
	StationComponentID uint8
}

type TransportKind int

const (
	TransportDefaultSubnet TransportKind = iota
	TransportExplicitSubnet
	TransportSerial
)

var (
	// ErrAlreadyExists is returned by Registry.Admit for a duplicate
	// system id — a programming error per spec.md §4.1, surfaced as an
	// error here instead of aborting the process so callers (and tests)
	// can observe it.
	ErrAlreadyExists = errors.New("fleet: system id already admitted")

	// ErrUnknownVehicle is returned by read-side lookups for a system id
	// with no session.
	ErrUnknownVehicle = errors.New("fleet: unknown vehicle")

	// ErrNotReady describes an operation that needs a vehicle past
	// Initiating when the vehicle is not there yet. No operation in this
	// package returns it; commands do not check readiness.
	ErrNotReady = errors.New("fleet: vehicle not ready")
)
