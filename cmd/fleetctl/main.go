// Command fleetctl runs the ground-station-side fleet controller: it
// opens the configured MAVLink transport, admits vehicles as they
// announce themselves, and serves the embedder API over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trenchline/fleetctl/internal/config"
	"github.com/trenchline/fleetctl/internal/fleet"
	"github.com/trenchline/fleetctl/internal/persistence"
	"github.com/trenchline/fleetctl/internal/server"
)

func main() {
	iniPath := flag.String("config", "", "path to fleetctl.ini")
	pgHost := flag.String("pg-host", "", "postgres host (leave empty to disable the persistence sink)")
	pgPort := flag.Int("pg-port", 5432, "postgres port")
	pgUser := flag.String("pg-user", "fleetctl", "postgres user")
	pgPassword := flag.String("pg-password", "", "postgres password")
	pgDatabase := flag.String("pg-database", "fleetctl", "postgres database")
	flag.Parse()

	cfg := config.Load(*iniPath)

	var sink fleet.SnapshotSink
	if *pgHost != "" {
		store, err := persistence.NewStore(persistence.Config{
			Host:     *pgHost,
			Port:     *pgPort,
			User:     *pgUser,
			Password: *pgPassword,
			Database: *pgDatabase,
		})
		if err != nil {
			log.Fatalf("fleetctl: persistence: %v", err)
		}
		if err := store.Migrate(context.Background()); err != nil {
			log.Fatalf("fleetctl: persistence: %v", err)
		}
		defer store.Close()
		sink = store
	}

	controller := fleet.NewController(cfg, sink)
	if err := controller.Init(); err != nil {
		log.Fatalf("fleetctl: %v", err)
	}
	defer controller.Deinit()

	srv := server.New(cfg, controller)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("fleetctl: server: %v", err)
		}
	}()

	waitForShutdownSignal()
	log.Println("fleetctl: shutting down")
}

func waitForShutdownSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
