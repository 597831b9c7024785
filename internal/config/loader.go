package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Load builds configuration from, in increasing precedence: built-in
// defaults, an INI file (if iniPath is non-empty and present), then
// environment variables. This mirrors the teacher's env-first Load()
// while adding the INI reader spec.md §6 names as the configuration
// external interface.
func Load(iniPath string) *Config {
	cfg := Default()

	if iniPath != "" {
		if err := loadINI(cfg, iniPath); err != nil {
			log.Printf("fleetctl: warning: could not load INI config %q: %v", iniPath, err)
		}
	}

	loadEnv(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("fleetctl: invalid configuration: %v", err)
	}

	return cfg
}

// loadINI reads the recognized options from spec.md §6 out of an INI
// file and overlays them onto cfg.
func loadINI(cfg *Config, path string) error {
	f, err := ini.Load(path)
	if err != nil {
		return err
	}

	if sec := f.Section("network"); sec != nil {
		if v := sec.Key("subnet_address").String(); v != "" {
			cfg.Network.SubnetAddress = v
		}
	}

	if sec := f.Section("transport"); sec != nil {
		if v := sec.Key("mode").String(); v != "" {
			cfg.Network.Mode = TransportMode(v)
		}
	}

	if sec := f.Section("station"); sec != nil {
		if v, err := sec.Key("sys_id").Uint(); err == nil {
			cfg.Station.SystemID = uint8(v)
		}
		if v, err := sec.Key("component_id").Uint(); err == nil {
			cfg.Station.ComponentID = uint8(v)
		}
	}

	if sec := f.Section("stream"); sec != nil {
		if v := sec.Key("rates").String(); v != "" {
			cfg.Stream.Rates = parseStreamRates(v)
		}
	}

	if sec := f.Section("logging"); sec != nil {
		if v := sec.Key("level").String(); v != "" {
			cfg.Logging.Level = v
		}
		if v := sec.Key("path").String(); v != "" {
			cfg.Logging.Path = v
		}
	}

	if sec := f.Section("serial"); sec != nil {
		if v := sec.Key("port").String(); v != "" {
			cfg.Network.SerialPort = v
		}
		if v, err := sec.Key("baud").Int(); err == nil {
			cfg.Network.SerialBaud = v
		}
	}

	return nil
}

// parseStreamRates parses "stream_id:rate_hz,stream_id:rate_hz" pairs.
func parseStreamRates(raw string) []StreamRate {
	var out []StreamRate
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		id, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		rate, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, StreamRate{StreamID: uint8(id), RateHz: uint16(rate)})
	}
	return out
}

// loadEnv overrides cfg with environment variables, highest precedence.
func loadEnv(cfg *Config) {
	if port := os.Getenv("FLEETCTL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	if host := os.Getenv("FLEETCTL_HOST"); host != "" {
		cfg.Server.Host = host
	}

	if logLevel := os.Getenv("FLEETCTL_LOG_LEVEL"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if mode := os.Getenv("FLEETCTL_TRANSPORT_MODE"); mode != "" {
		cfg.Network.Mode = TransportMode(mode)
	}

	if addr := os.Getenv("FLEETCTL_SUBNET_ADDRESS"); addr != "" {
		cfg.Network.SubnetAddress = addr
	}

	if sysID := os.Getenv("FLEETCTL_STATION_SYSID"); sysID != "" {
		if v, err := strconv.Atoi(sysID); err == nil {
			cfg.Station.SystemID = uint8(v)
		}
	}

	if port := os.Getenv("FLEETCTL_SERIAL_PORT"); port != "" {
		cfg.Network.SerialPort = port
	}

	if baud := os.Getenv("FLEETCTL_SERIAL_BAUD"); baud != "" {
		if b, err := strconv.Atoi(baud); err == nil {
			cfg.Network.SerialBaud = b
		}
	}
}
