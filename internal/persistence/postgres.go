// Package persistence is the relational snapshot sink named in
// SPEC_FULL's DOMAIN STACK: a durable history of VehicleSnapshot writes
// behind the fleet.SnapshotSink interface, so internal/fleet never
// imports database/sql directly.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/trenchline/fleetctl/internal/fleet"
)

// Config holds the connection parameters for the snapshot store.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN builds the libpq connection string.
func (c Config) DSN() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslmode)
}

// Store is a PostgreSQL-backed fleet.SnapshotSink. One row is inserted
// per PublishSnapshot call into the single vehicle_snapshots table,
// whose columns follow VehicleSnapshot's fields; the telemetry domains
// (position, attitude, battery, gps) are not split into separate tables.
type Store struct {
	*sql.DB
}

// NewStore opens a connection pool and verifies connectivity.
func NewStore(cfg Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("persistence: open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("persistence: ping: %w", err)
	}

	return &Store{DB: db}, nil
}

// Migrate creates the snapshot table if it does not already exist.
// There is no migration framework here — one table, one idempotent
// DDL statement, matching the scale the teacher's own platform/db
// package operates at.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS vehicle_snapshots (
	id                 BIGSERIAL PRIMARY KEY,
	system_id          SMALLINT NOT NULL,
	status             SMALLINT NOT NULL,
	armed              BOOLEAN NOT NULL,
	latitude           DOUBLE PRECISION NOT NULL,
	longitude          DOUBLE PRECISION NOT NULL,
	altitude_msl       DOUBLE PRECISION NOT NULL,
	relative_altitude  DOUBLE PRECISION NOT NULL,
	velocity_x         DOUBLE PRECISION NOT NULL,
	velocity_y         DOUBLE PRECISION NOT NULL,
	velocity_z         DOUBLE PRECISION NOT NULL,
	roll               DOUBLE PRECISION NOT NULL,
	pitch              DOUBLE PRECISION NOT NULL,
	yaw                DOUBLE PRECISION NOT NULL,
	heading            DOUBLE PRECISION NOT NULL,
	ground_speed       DOUBLE PRECISION NOT NULL,
	climb_rate         DOUBLE PRECISION NOT NULL,
	battery_voltage    DOUBLE PRECISION NOT NULL,
	battery_current    DOUBLE PRECISION NOT NULL,
	battery_remaining  INTEGER NOT NULL,
	gps_fix_type       SMALLINT NOT NULL,
	satellite_count    SMALLINT NOT NULL,
	gps_eph            DOUBLE PRECISION NOT NULL,
	sensors_healthy    BOOLEAN NOT NULL,
	base_mode          SMALLINT NOT NULL,
	custom_mode        BIGINT NOT NULL,
	last_heartbeat     TIMESTAMPTZ NOT NULL,
	last_update        TIMESTAMPTZ NOT NULL,
	recorded_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	if err != nil {
		return fmt.Errorf("persistence: migrate: %w", err)
	}
	return nil
}

// PublishSnapshot implements fleet.SnapshotSink.
func (s *Store) PublishSnapshot(ctx context.Context, snap fleet.VehicleSnapshot) error {
	_, err := s.ExecContext(ctx, `
INSERT INTO vehicle_snapshots (
	system_id, status, armed,
	latitude, longitude, altitude_msl, relative_altitude,
	velocity_x, velocity_y, velocity_z,
	roll, pitch, yaw,
	heading, ground_speed, climb_rate,
	battery_voltage, battery_current, battery_remaining,
	gps_fix_type, satellite_count, gps_eph,
	sensors_healthy, base_mode, custom_mode,
	last_heartbeat, last_update
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)`,
		snap.SystemID, int32(snap.Status), snap.Armed,
		snap.Latitude, snap.Longitude, snap.AltitudeMSL, snap.RelativeAltitude,
		snap.VelocityX, snap.VelocityY, snap.VelocityZ,
		snap.Roll, snap.Pitch, snap.Yaw,
		snap.Heading, snap.GroundSpeed, snap.ClimbRate,
		snap.BatteryVoltage, snap.BatteryCurrent, snap.BatteryRemaining,
		snap.GPSFixType, snap.SatelliteCount, snap.GPSEph,
		snap.SensorsHealthy, snap.BaseMode, snap.CustomMode,
		snap.LastHeartbeat, snap.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("persistence: insert snapshot sys %d: %w", snap.SystemID, err)
	}
	return nil
}

// Health reports whether the connection pool can still reach the database.
func (s *Store) Health(ctx context.Context) error {
	if err := s.PingContext(ctx); err != nil {
		return fmt.Errorf("persistence: health check: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("persistence: close: %w", err)
	}
	return nil
}
