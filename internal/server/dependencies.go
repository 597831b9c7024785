package server

import (
	"log"
	"sync"

	"github.com/trenchline/fleetctl/internal/config"
	"github.com/trenchline/fleetctl/internal/fleet"
)

// Dependencies holds the shared dependencies handed to every HTTP
// handler: the process logger, the loaded configuration, the vehicle
// label registry, and the fleet Controller itself.
type Dependencies struct {
	Config     *config.Config
	Vehicles   *config.VehicleRegistry
	Logger     *log.Logger
	Controller *fleet.Controller

	mu sync.RWMutex
}

// NewDependencies builds Dependencies around an already-constructed
// Controller; it does not call Controller.Init itself, matching the
// teacher's convention of wiring in New and starting in Start/main.
func NewDependencies(cfg *config.Config, controller *fleet.Controller) *Dependencies {
	logger := log.New(log.Writer(), "[fleetctl] ", log.LstdFlags|log.Lshortfile)

	vehicles, err := config.LoadVehicleRegistry(cfg.VehicleRegistryPath)
	if err != nil {
		logger.Printf("Warning: could not load vehicle registry: %v", err)
		vehicles = &config.VehicleRegistry{}
	} else {
		logger.Printf("Loaded vehicle registry with %d labels", len(vehicles.Vehicles))
	}

	return &Dependencies{
		Config:     cfg,
		Vehicles:   vehicles,
		Logger:     logger,
		Controller: controller,
	}
}

// SetLogger allows updating the logger (useful for testing).
func (d *Dependencies) SetLogger(logger *log.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Logger = logger
}

// GetLogger returns the logger (thread-safe).
func (d *Dependencies) GetLogger() *log.Logger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Logger
}

// GetVehicleRegistry returns the vehicle label registry (thread-safe).
func (d *Dependencies) GetVehicleRegistry() *config.VehicleRegistry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Vehicles
}
