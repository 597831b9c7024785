package fleet

import (
	"testing"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/stretchr/testify/assert"
)

func TestBuildSnapshotAppliesMavlinkUnitConversions(t *testing.T) {
	ms := &MessageSet{
		GlobalPositionInt: &common.MessageGlobalPositionInt{
			Lat: 473977420, Lon: 85455320, Alt: 500000, RelativeAlt: 10000,
			Vx: 150, Vy: -50, Vz: 10,
		},
		SysStatus: &common.MessageSysStatus{
			VoltageBattery: 16800, CurrentBattery: 1250, BatteryRemaining: 80,
		},
		GPSRawInt: &common.MessageGpsRawInt{
			FixType: 3, SatellitesVisible: 11, Eph: 120,
		},
		Heartbeat: &common.MessageHeartbeat{BaseMode: common.MAV_MODE_FLAG_SAFETY_ARMED},
	}

	snap := buildSnapshot(1, StatusArmed, ms)

	assert.InDelta(t, 47.397742, snap.Latitude, 1e-6)
	assert.InDelta(t, 8.545532, snap.Longitude, 1e-6)
	assert.InDelta(t, 500.0, snap.AltitudeMSL, 1e-9)
	assert.InDelta(t, 10.0, snap.RelativeAltitude, 1e-9)
	assert.InDelta(t, 1.5, snap.VelocityX, 1e-9)
	assert.InDelta(t, 16.8, snap.BatteryVoltage, 1e-9)
	assert.InDelta(t, 12.5, snap.BatteryCurrent, 1e-9)
	assert.Equal(t, int32(80), snap.BatteryRemaining)
	assert.True(t, snap.Armed)
	assert.Equal(t, uint8(3), snap.GPSFixType)
	assert.Equal(t, uint8(11), snap.SatelliteCount)
	assert.InDelta(t, 1.2, snap.GPSEph, 1e-9)
}

func TestBuildSnapshotHandlesNilMessages(t *testing.T) {
	snap := buildSnapshot(1, StatusInitiating, &MessageSet{})

	assert.Equal(t, SystemID(1), snap.SystemID)
	assert.False(t, snap.Armed)
	assert.Equal(t, 0.0, snap.Latitude)
}
