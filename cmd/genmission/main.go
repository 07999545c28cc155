// Command genmission writes a synthetic multi-drone waypoint workbook for
// conflict-detection testing.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/averdin/uav-deconfliction/generator"
)

func main() {
	var (
		out       = flag.String("out", "flight_data.xlsx", "output workbook path")
		drones    = flag.Int("drones", 0, "number of drones (default from config)")
		waypoints = flag.Int("waypoints", 0, "waypoints per drone (default from config)")
		seed      = flag.Int64("seed", 0, "random seed (default from config)")
		primary   = flag.Int("primary", 0, "primary drone id (default from config)")
	)
	flag.Parse()

	cfg := generator.DefaultConfig()
	if *drones > 0 {
		cfg.NumDrones = *drones
	}
	if *waypoints > 0 {
		cfg.WaypointsPerDrone = *waypoints
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *primary > 0 {
		cfg.PrimaryID = *primary
	}

	ds, groups := generator.Generate(cfg)
	if err := generator.WriteXLSX(*out, ds); err != nil {
		log.Fatalf("Failed to write workbook: %v", err)
	}

	fmt.Printf("Wrote %d waypoints for %d drones to %s\n", len(ds), cfg.NumDrones, *out)
	fmt.Printf("  primary:  drone %d\n", cfg.PrimaryID)
	fmt.Printf("  spatial:  %d drones\n", len(groups.Spatial))
	fmt.Printf("  temporal: %d drones\n", len(groups.Temporal))
	fmt.Printf("  altitude: %d drones\n", len(groups.Altitude))
	fmt.Printf("  safe:     %d drones\n", len(groups.Safe))
}
