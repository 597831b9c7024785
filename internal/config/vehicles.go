package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VehicleLabel is a human-friendly name attached to a known system id.
// It never carries transport parameters — in this system the transport
// is process-wide (network.subnet_address / transport.mode), vehicles
// are discovered on the wire, not pre-declared. This registry exists
// purely so logs and persisted rows can show "Alpha (sys 3)" instead of
// a bare integer.
type VehicleLabel struct {
	SystemID    uint8  `yaml:"system_id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// VehicleRegistry holds all known vehicle labels.
type VehicleRegistry struct {
	Vehicles []VehicleLabel `yaml:"vehicles"`
}

// LoadVehicleRegistry loads vehicle labels from a YAML file. A missing
// or unreadable file is returned as an error; since the registry is
// purely cosmetic, callers may substitute an empty registry, whose
// Label falls back to bare system ids.
func LoadVehicleRegistry(path string) (*VehicleRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vehicle registry: %w", err)
	}

	var registry VehicleRegistry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse vehicle registry: %w", err)
	}

	return &registry, nil
}

// Label returns the configured name for a system id, or its bare
// numeric form if no label is registered.
func (r *VehicleRegistry) Label(sysID uint8) string {
	if r != nil {
		for _, v := range r.Vehicles {
			if v.SystemID == sysID {
				return v.Name
			}
		}
	}
	return fmt.Sprintf("sys-%d", sysID)
}
