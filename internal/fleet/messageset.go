package fleet

import (
	"sync"
	"time"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
)

// MessageSet is the last-seen value of each recognized MAVLink message
// kind for one vehicle. It is mutated only by the Message Aggregator
// for that vehicle (spec.md invariant I5); all other readers go through
// the owning Session's lock.
type MessageSet struct {
	Heartbeat          *common.MessageHeartbeat
	SysStatus          *common.MessageSysStatus
	Attitude           *common.MessageAttitude
	GPSRawInt          *common.MessageGpsRawInt
	GlobalPositionInt  *common.MessageGlobalPositionInt
	VfrHud             *common.MessageVfrHud
	RawIMU             *common.MessageRawImu
	ScaledPressure     *common.MessageScaledPressure
	RCChannels         *common.MessageRcChannels
	RCChannelsRaw      *common.MessageRcChannelsRaw
	NavControllerOutput *common.MessageNavControllerOutput
	MissionCurrent     *common.MessageMissionCurrent
	Statustext         *common.MessageStatustext
	NamedValueFloat    *common.MessageNamedValueFloat
	BatteryStatus      *common.MessageBatteryStatus

	LastHeartbeat time.Time
	LastUpdate    time.Time
}

// VehicleSnapshot is the denormalized, consumer-facing view of a
// vehicle's latest telemetry (spec.md §3/§4.9). It is a plain value
// type so GetVehicleData can return it by copy with no aliasing back
// into MessageSet.
type VehicleSnapshot struct {
	SystemID SystemID
	Status   VehicleStatus
	Armed    bool

	Latitude, Longitude, AltitudeMSL float64
	RelativeAltitude                float64
	VelocityX, VelocityY, VelocityZ float64

	Roll, Pitch, Yaw float64

	Heading       float64
	GroundSpeed   float64
	ClimbRate     float64

	BatteryVoltage   float64
	BatteryCurrent   float64
	BatteryRemaining int32

	GPSFixType     uint8
	SatelliteCount uint8
	GPSEph         float64

	SensorsHealthy bool

	BaseMode   uint8
	CustomMode uint32

	LastHeartbeat time.Time
	LastUpdate    time.Time
}

// buildSnapshot derives a VehicleSnapshot from the current MessageSet.
// Called by the Snapshot Publisher under the session's MessageSet read
// lock (GetVehicleData returns the snapshot the publisher last stored),
// so the result reflects one
// consistent point in the aggregator's update sequence (spec.md
// property P6: no torn reads across fields within a single message —
// guaranteed here because each Message* field is replaced atomically
// by the Go assignment that stores it, and we read the whole struct
// under the same lock the Aggregator writes under).
func buildSnapshot(sysID SystemID, status VehicleStatus, ms *MessageSet) VehicleSnapshot {
	snap := VehicleSnapshot{
		SystemID:      sysID,
		Status:        status,
		LastHeartbeat: ms.LastHeartbeat,
		LastUpdate:    ms.LastUpdate,
	}

	if hb := ms.Heartbeat; hb != nil {
		snap.Armed = (hb.BaseMode & common.MAV_MODE_FLAG_SAFETY_ARMED) != 0
		snap.BaseMode = uint8(hb.BaseMode)
		snap.CustomMode = hb.CustomMode
	}

	if gp := ms.GlobalPositionInt; gp != nil {
		snap.Latitude = float64(gp.Lat) / 1e7
		snap.Longitude = float64(gp.Lon) / 1e7
		snap.AltitudeMSL = float64(gp.Alt) / 1000.0
		snap.RelativeAltitude = float64(gp.RelativeAlt) / 1000.0
		snap.VelocityX = float64(gp.Vx) / 100.0
		snap.VelocityY = float64(gp.Vy) / 100.0
		snap.VelocityZ = float64(gp.Vz) / 100.0
	}

	if att := ms.Attitude; att != nil {
		snap.Roll = float64(att.Roll)
		snap.Pitch = float64(att.Pitch)
		snap.Yaw = float64(att.Yaw)
	}

	if hud := ms.VfrHud; hud != nil {
		snap.Heading = float64(hud.Heading)
		snap.GroundSpeed = float64(hud.Groundspeed)
		snap.ClimbRate = float64(hud.Climb)
	}

	if sys := ms.SysStatus; sys != nil {
		snap.BatteryVoltage = float64(sys.VoltageBattery) / 1000.0
		snap.BatteryCurrent = float64(sys.CurrentBattery) / 100.0
		snap.BatteryRemaining = int32(sys.BatteryRemaining)
		snap.SensorsHealthy = (sys.OnboardControlSensorsHealth &
			sys.OnboardControlSensorsEnabled) == sys.OnboardControlSensorsEnabled
	}

	if bat := ms.BatteryStatus; bat != nil && snap.BatteryRemaining == 0 {
		snap.BatteryRemaining = int32(bat.BatteryRemaining)
	}

	if gps := ms.GPSRawInt; gps != nil {
		snap.GPSFixType = uint8(gps.FixType)
		snap.SatelliteCount = gps.SatellitesVisible
		snap.GPSEph = float64(gps.Eph) / 100.0
	}

	return snap
}

// messageSetLock bundles a MessageSet with the lock guarding it, owned
// by a Session. Writer: Aggregator. Reader: Snapshot Publisher; the
// telemetry read API reads the snapshot the publisher stores instead.
type messageSetLock struct {
	mu sync.RWMutex
	ms MessageSet
}
