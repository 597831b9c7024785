package config

import (
	"fmt"
)

// TransportMode selects how the fleet controller talks to vehicles.
type TransportMode string

const (
	TransportUDP    TransportMode = "udp"
	TransportSerial TransportMode = "serial"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Station StationConfig
	Network NetworkConfig
	Stream  StreamConfig
	Logging LoggingConfig

	VehicleRegistryPath string // optional YAML vehicle-label registry
}

// ServerConfig configures the optional HTTP embedder surface.
type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

// StationConfig identifies the ground station itself on the MAVLink bus.
type StationConfig struct {
	SystemID    uint8
	ComponentID uint8
}

// NetworkConfig configures the transport the Transport Reader opens.
type NetworkConfig struct {
	SubnetAddress string // e.g. "192.168.2.0", empty selects the default
	Mode          TransportMode
	SerialPort    string
	SerialBaud    int
}

// StreamRate is one configured REQUEST_DATA_STREAM subscription.
type StreamRate struct {
	StreamID uint8
	RateHz   uint16
}

// StreamConfig lists the data streams the Stream Subscriber requests.
type StreamConfig struct {
	Rates []StreamRate
}

// LoggingConfig configures the shared process logger.
type LoggingConfig struct {
	Level string // "debug", "info", "warn", "error"
	Path  string // read from [logging] path; not used to redirect log output
}

// Default returns a Config with sensible defaults, mirroring ArduSub's
// usual ground-control setup: MAV_DATA_STREAM_ALL at 4Hz is plenty for
// a single default stream, station id 255/0 identifies us as a GCS.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
		Station: StationConfig{
			SystemID:    255,
			ComponentID: 0,
		},
		Network: NetworkConfig{
			SubnetAddress: "192.168.2.0",
			Mode:          TransportUDP,
			SerialPort:    "/dev/ttyUSB0",
			SerialBaud:    57600,
		},
		Stream: StreamConfig{
			Rates: []StreamRate{
				{StreamID: 0, RateHz: 4}, // MAV_DATA_STREAM_ALL
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Station.SystemID == 0 {
		return fmt.Errorf("station.sys_id must be 1..255")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Network.Mode {
	case TransportUDP, TransportSerial:
	default:
		return fmt.Errorf("invalid transport.mode: %s", c.Network.Mode)
	}

	return nil
}

// ServerAddr returns the server address as host:port.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
