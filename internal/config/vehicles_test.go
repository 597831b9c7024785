package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVehicleRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicles.yaml")
	contents := `
vehicles:
  - system_id: 1
    name: Alpha
    description: forward survey vehicle
  - system_id: 2
    name: Bravo
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	reg, err := LoadVehicleRegistry(path)
	require.NoError(t, err)
	require.Len(t, reg.Vehicles, 2)

	assert.Equal(t, "Alpha", reg.Label(1))
	assert.Equal(t, "Bravo", reg.Label(2))
}

func TestVehicleLabelFallsBackToBareSystemID(t *testing.T) {
	reg := &VehicleRegistry{}
	assert.Equal(t, "sys-9", reg.Label(9))
}

func TestLoadVehicleRegistryMissingFileIsError(t *testing.T) {
	_, err := LoadVehicleRegistry("/nonexistent/path.yaml")
	assert.Error(t, err)
}
