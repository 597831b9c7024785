package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadINIOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fleetctl.ini")
	contents := `
[network]
subnet_address = 10.0.0.0

[transport]
mode = serial

[station]
sys_id = 200
component_id = 2

[stream]
rates = 0:4,1:10

[serial]
port = /dev/ttyACM0
baud = 115200
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg := Default()
	require.NoError(t, loadINI(cfg, path))

	assert.Equal(t, "10.0.0.0", cfg.Network.SubnetAddress)
	assert.Equal(t, TransportSerial, cfg.Network.Mode)
	assert.Equal(t, uint8(200), cfg.Station.SystemID)
	assert.Equal(t, uint8(2), cfg.Station.ComponentID)
	assert.Equal(t, "/dev/ttyACM0", cfg.Network.SerialPort)
	assert.Equal(t, 115200, cfg.Network.SerialBaud)
	require.Len(t, cfg.Stream.Rates, 2)
	assert.Equal(t, StreamRate{StreamID: 0, RateHz: 4}, cfg.Stream.Rates[0])
	assert.Equal(t, StreamRate{StreamID: 1, RateHz: 10}, cfg.Stream.Rates[1])
}

func TestParseStreamRatesSkipsMalformedPairs(t *testing.T) {
	rates := parseStreamRates("0:4, garbage, 2:8")
	assert.Equal(t, []StreamRate{{StreamID: 0, RateHz: 4}, {StreamID: 2, RateHz: 8}}, rates)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("FLEETCTL_PORT", "9999")
	t.Setenv("FLEETCTL_LOG_LEVEL", "debug")

	cfg := Default()
	loadEnv(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
