package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroStationSystemID(t *testing.T) {
	cfg := Default()
	cfg.Station.SystemID = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownTransportMode(t *testing.T) {
	cfg := Default()
	cfg.Network.Mode = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestServerAddr(t *testing.T) {
	cfg := Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 9090
	assert.Equal(t, "127.0.0.1:9090", cfg.ServerAddr())
}
